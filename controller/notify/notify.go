package notify

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Senorsean/crm-employ-2025-sub001/controller/response"
	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
)

const (
	// DefaultPongWait is how long a silent client is kept before the read fails.
	DefaultPongWait = 60 * time.Second
	writeWait       = 10 * time.Second
)

// NotifyController serves the toast stream on GET /ws. An empty origins list accepts any origin.
func NotifyController(router *gin.RouterGroup, hub *notify.Hub, origins []string, log logrus.FieldLogger) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(origins) == 0 || origin == "" || slices.Contains(origins, origin)
		},
	}

	router.GET("/ws", func(c *gin.Context) {
		Subscribe(c, hub, upgrader, DefaultPongWait, log)
	})
}

// Subscribe upgrades the request and keeps the connection registered until
// the client goes away. The server pings every nine tenths of pongWait; a
// client that stops answering is dropped once pongWait has passed.
func Subscribe(c *gin.Context, hub *notify.Hub, upgrader websocket.Upgrader, pongWait time.Duration, log logrus.FieldLogger) {
	p, err := session.Require(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	if !hub.Add(p.UserID, conn) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too many connections"))
		_ = conn.Close()
		return
	}
	defer func() {
		hub.Remove(p.UserID, conn)
		_ = conn.Close()
	}()

	done := make(chan struct{})
	defer close(done)
	go ping(conn, pongWait*9/10, done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).WithField("owner", p.UserID).Debug("websocket closed")
			}
			return
		}
	}
}

// ping keeps conn alive until done is closed or a ping cannot be written.
func ping(conn *websocket.Conn, period time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
