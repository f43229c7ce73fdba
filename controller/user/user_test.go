package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Senorsean/crm-employ-2025-sub001/config"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
)

func TestUpdateProfileIdentityProviderUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clk := clock.NewFake()
	var cfg config.Config
	cfg.Auth.JWTSecret = "access"
	cfg.Auth.JWTRefreshSecret = "refresh"
	users := services.NewUserService(repository.NewMemoryUsers(), services.NewTokenService(cfg, clk), clk)

	p := session.Principal{UserID: "fb-uid", Email: "jane@anthea-rh.fr", Name: "Jane"}
	_, _, err := users.Upsert(session.WithPrincipal(context.Background(), p))
	require.NoError(t, err)

	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), p))
	})
	UserController(group, users)

	put := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/user/profile", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	w := put(`{"password":"new password"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "identity provider")

	w = put(`{"name":"Jane Doe"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Jane Doe")
}
