package user

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/controller/response"
	"github.com/Senorsean/crm-employ-2025-sub001/dto"
	"github.com/Senorsean/crm-employ-2025-sub001/middleware"
	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
)

func UserController(router *gin.RouterGroup, users *services.UserService) {
	routes := router.Group("/user")
	{
		routes.GET("/profile", func(c *gin.Context) {
			GetProfile(c, users)
		})
		routes.PUT("/profile", func(c *gin.Context) {
			UpdateProfileUser(c, users)
		})
		routes.GET("/:id", middleware.AdminMiddleware(), func(c *gin.Context) {
			GetUser(c, users)
		})
	}
}

func GetProfile(c *gin.Context, users *services.UserService) {
	u, err := users.Profile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(u))
}

func UpdateProfileUser(c *gin.Context, users *services.UserService) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}
	if req.Name == "" && req.Password == "" {
		response.BadRequest(c, "No data to update")
		return
	}
	if req.Name != "" {
		req.Name = strings.TrimSpace(req.Name)
		if len(req.Name) < 2 || len(req.Name) > 100 {
			response.BadRequest(c, "Name must be between 2 and 100 characters")
			return
		}
	}

	u, err := users.UpdateProfile(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    toResponse(u),
	})
}

func GetUser(c *gin.Context, users *services.UserService) {
	u, err := users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(u))
}

func toResponse(u model.User) dto.UserResponse {
	return dto.UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.Active,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
