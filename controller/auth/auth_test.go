package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Senorsean/crm-employ-2025-sub001/config"
	"github.com/Senorsean/crm-employ-2025-sub001/dto"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
)

type fakeCaptcha struct {
	err   error
	calls int
}

func (f *fakeCaptcha) Verify(_ context.Context, token, action, _, _ string) (*dto.AssessmentResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AssessmentResult{Score: 0.9, Action: action}, nil
}

func newUsers(t *testing.T) *services.UserService {
	t.Helper()
	var cfg config.Config
	cfg.Auth.JWTSecret = "access"
	cfg.Auth.JWTRefreshSecret = "refresh"
	cfg.Auth.AccessTTL = time.Hour
	cfg.Auth.RefreshTTL = 24 * time.Hour
	clk := clock.New()
	return services.NewUserService(repository.NewMemoryUsers(), services.NewTokenService(cfg, clk), clk)
}

func post(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupCaptcha(t *testing.T) {
	gin.SetMode(gin.TestMode)
	captcha := &fakeCaptcha{}
	r := gin.New()
	SignUpController(r.Group("/auth"), newUsers(t), captcha)

	body := gin.H{"email": "jeanne@anthea-rh.fr", "password": "motdepasse", "name": "Jeanne"}
	w := post(r, "/auth/signup", body)
	assert.Equal(t, http.StatusBadRequest, w.Code, "captcha token required")
	assert.Zero(t, captcha.calls)

	body["captchaToken"] = "tok"
	captcha.err = services.ErrCaptchaRejected
	assert.Equal(t, http.StatusBadRequest, post(r, "/auth/signup", body).Code)

	captcha.err = errors.New("recaptcha unavailable")
	assert.Equal(t, http.StatusBadRequest, post(r, "/auth/signup", body).Code)

	captcha.err = nil
	w = post(r, "/auth/signup", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 3, captcha.calls)
}

func TestVerifyCaptcha(t *testing.T) {
	gin.SetMode(gin.TestMode)
	captcha := &fakeCaptcha{}
	r := gin.New()
	CaptchaController(r.Group("/auth"), captcha)

	w := post(r, "/auth/captcha", gin.H{"token": "tok", "action": "login"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"login"`)

	assert.Equal(t, http.StatusBadRequest, post(r, "/auth/captcha", gin.H{"action": "login"}).Code)

	captcha.err = services.ErrCaptchaRejected
	assert.Equal(t, http.StatusBadRequest, post(r, "/auth/captcha", gin.H{"token": "tok", "action": "login"}).Code)
}

func TestSigninAndRefreshHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := newUsers(t)
	_, err := users.Signup(t.Context(), "Jeanne", "jeanne@anthea-rh.fr", "motdepasse")
	require.NoError(t, err)

	r := gin.New()
	SignInController(r.Group("/auth"), users)

	w := post(r, "/auth/signin", gin.H{"email": "jeanne@anthea-rh.fr", "password": "motdepasse"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token dto.TokenPair `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token.RefreshToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, post(r, "/auth/signin", gin.H{"email": "not-an-email"}).Code)
}

func TestOpenSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := newUsers(t)
	r := gin.New()
	group := r.Group("", func(c *gin.Context) {
		p := session.Principal{UserID: "fb-uid", Email: "jeanne@anthea-rh.fr", Name: "Jeanne"}
		c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), p))
	})
	SessionController(group, users)

	assert.Equal(t, http.StatusCreated, post(r, "/auth/session", nil).Code)
	assert.Equal(t, http.StatusOK, post(r, "/auth/session", nil).Code)
}
