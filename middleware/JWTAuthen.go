package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/services"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
)

// TokenVerifier turns a bearer token into the authenticated principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (session.Principal, error)
}

// JWTVerifier accepts access tokens issued by the local sign-in.
type JWTVerifier struct {
	Tokens *services.TokenService
}

func (v JWTVerifier) Verify(_ context.Context, token string) (session.Principal, error) {
	claims, err := v.Tokens.ParseAccessToken(token)
	if err != nil {
		return session.Principal{}, err
	}
	return session.Principal{UserID: claims.UserID, Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier accepts Firebase Authentication ID tokens.
type FirebaseVerifier struct {
	client idTokenVerifier
}

func NewFirebaseVerifier(client *auth.Client) FirebaseVerifier {
	return FirebaseVerifier{client: client}
}

func (v FirebaseVerifier) Verify(ctx context.Context, token string) (session.Principal, error) {
	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return session.Principal{}, err
	}
	p := session.Principal{UserID: t.UID, Role: "user"}
	if email, ok := t.Claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := t.Claims["name"].(string); ok {
		p.Name = name
	}
	if role, ok := t.Claims["role"].(string); ok && role != "" {
		p.Role = role
	}
	if p.UserID == "" {
		return session.Principal{}, errors.New("token has no uid")
	}
	return p, nil
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// AccessTokenMiddleware authenticates the request and puts the principal on
// the request context.
func AccessTokenMiddleware(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		token, ok := bearer(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		p, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token is expired or invalid"})
			return
		}

		c.Set("userId", p.UserID)
		c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := session.FromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			return
		}
		if p.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// RefreshTokenMiddleware reads the refresh token from the Authorization
// header when present and stores it under "refreshToken".
func RefreshTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token, ok := bearer(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}
		c.Set("refreshToken", token)
		c.Next()
	}
}

// QueryTokenMiddleware lets browsers that cannot set headers, such as the
// websocket client, pass the access token as ?access_token=.
func QueryTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Header.Get("Authorization") == "" {
			if token := c.Query("access_token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		c.Next()
	}
}
