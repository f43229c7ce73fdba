package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/controller/response"
	"github.com/Senorsean/crm-employ-2025-sub001/dto"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
)

const signupAction = "signup"

// SignUpController registers POST /signup. A nil verifier disables the captcha check.
func SignUpController(router *gin.RouterGroup, users *services.UserService, verifier services.CaptchaVerifier) {
	router.POST("/signup", func(c *gin.Context) {
		Signup(c, users, verifier)
	})
}

func Signup(c *gin.Context, users *services.UserService, verifier services.CaptchaVerifier) {
	var request dto.SignupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if verifier != nil {
		if request.CaptchaToken == "" {
			response.BadRequest(c, "captchaToken is required")
			return
		}
		_, err := verifier.Verify(c.Request.Context(), request.CaptchaToken, signupAction, clientIP(c), c.Request.UserAgent())
		if err != nil {
			if !errors.Is(err, services.ErrCaptchaRejected) {
				_ = c.Error(err)
				err = services.ErrCaptchaRejected
			}
			response.Error(c, err)
			return
		}
	}

	u, err := users.Signup(c.Request.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"docID":   u.UserID,
	})
}
