package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/controller/response"
	"github.com/Senorsean/crm-employ-2025-sub001/dto"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
)

func CaptchaController(router *gin.RouterGroup, verifier services.CaptchaVerifier) {
	router.POST("/captcha", func(c *gin.Context) {
		VerifyCaptcha(c, verifier)
	})
}

func VerifyCaptcha(c *gin.Context, verifier services.CaptchaVerifier) {
	var req dto.CaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request format",
		})
		return
	}
	if verifier == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": "reCAPTCHA is not configured",
		})
		return
	}

	result, err := verifier.Verify(c.Request.Context(), req.Token, req.Action, clientIP(c), c.Request.UserAgent())
	if errors.Is(err, services.ErrCaptchaRejected) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"score":   result.Score,
		"action":  result.Action,
		"reasons": result.Reasons,
		"message": "Captcha verified successfully",
	})
}

// clientIP keeps the first address when a proxy sent a list.
func clientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = c.Request.RemoteAddr
	}
	if idx := strings.Index(ip, ","); idx != -1 {
		ip = strings.TrimSpace(ip[:idx])
	}
	return ip
}
