package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/controller/response"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
)

// SessionController registers POST /auth/session. The group must already
// authenticate the caller, typically with a Firebase ID token.
func SessionController(router *gin.RouterGroup, users *services.UserService) {
	router.POST("/auth/session", func(c *gin.Context) {
		OpenSession(c, users)
	})
}

// OpenSession records the user behind the identity token, creating the
// profile on first sign-in.
func OpenSession(c *gin.Context, users *services.UserService) {
	u, created, err := users.Upsert(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Login Successfully"
	code := http.StatusOK
	if created {
		message = "Account created successfully"
		code = http.StatusCreated
	}
	c.JSON(code, gin.H{
		"message": message,
		"user": gin.H{
			"id":    u.UserID,
			"email": u.Email,
			"name":  u.Name,
			"role":  u.Role,
		},
	})
}
