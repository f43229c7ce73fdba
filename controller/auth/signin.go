package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/controller/response"
	"github.com/Senorsean/crm-employ-2025-sub001/dto"
	"github.com/Senorsean/crm-employ-2025-sub001/middleware"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
)

func SignInController(router *gin.RouterGroup, users *services.UserService) {
	router.POST("/signin", func(c *gin.Context) {
		Signin(c, users)
	})
	router.POST("/refresh", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
		Refresh(c, users)
	})
}

func Signin(c *gin.Context, users *services.UserService) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, pair, err := users.Signin(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successfully",
		"user": gin.H{
			"id":    u.UserID,
			"email": u.Email,
			"name":  u.Name,
			"role":  u.Role,
		},
		"token": pair,
	})
}

// Refresh takes the refresh token from the Authorization header, or from the body.
func Refresh(c *gin.Context, users *services.UserService) {
	token := c.GetString("refreshToken")
	if token == "" {
		var request dto.RefreshRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		token = request.RefreshToken
	}

	pair, err := users.Refresh(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Token refreshed",
		"token":   pair,
	})
}
