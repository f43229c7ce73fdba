package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Senorsean/crm-employ-2025-sub001/logger"
	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
)

func newServer(t *testing.T, hub *notify.Hub, origins []string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		if owner := c.Query("as"); owner != "" {
			c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), session.Principal{UserID: owner}))
		}
	})
	NotifyController(group, hub, origins, logger.Discard())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func TestSubscribeReceivesToasts(t *testing.T) {
	hub := notify.NewHub(logger.Discard())
	srv := newServer(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?as=u1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connections("u1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Notify(context.Background(), "u1", notify.Toast{Level: notify.LevelSuccess, Title: "Rendez-vous", Message: "ok"})
	var got notify.Toast
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "ok", got.Message)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Connections("u1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestSubscribeRequiresPrincipal(t *testing.T) {
	srv := newServer(t, notify.NewHub(logger.Discard()), nil)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSubscribeChecksOrigin(t *testing.T) {
	srv := newServer(t, notify.NewHub(logger.Discard()), []string{"https://crm.anthea-rh.fr"})

	header := http.Header{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?as=u1"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": {"https://crm.anthea-rh.fr"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?as=u1"), header)
	require.NoError(t, err)
	_ = conn.Close()
}

func TestSubscribeKeepsIdleConnectionAlive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := notify.NewHub(logger.Discard())
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), session.Principal{UserID: "u1"}))
		Subscribe(c, hub, websocket.Upgrader{}, 300*time.Millisecond, logger.Discard())
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.NoError(t, err)
	defer conn.Close()

	var pings atomic.Int32
	conn.SetPingHandler(func(data string) error {
		pings.Add(1)
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	time.Sleep(time.Second)
	assert.Greater(t, pings.Load(), int32(1))
	assert.Equal(t, 1, hub.Connections("u1"))
}

func TestSubscribeDropsSilentClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := notify.NewHub(logger.Discard())
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), session.Principal{UserID: "u1"}))
		Subscribe(c, hub, websocket.Upgrader{}, 200*time.Millisecond, logger.Discard())
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connections("u1") == 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return hub.Connections("u1") == 0 }, 2*time.Second, 20*time.Millisecond)
}
