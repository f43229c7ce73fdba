// Package response maps service errors to HTTP responses.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
)

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, session.ErrAuthRequired),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInactiveUser):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrTerminalStatus),
		errors.Is(err, services.ErrLinkedAlert),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrPasswordManaged):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, services.ErrCaptchaRejected):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error writes {"error": ...}. Internal errors are recorded on the context
// for the request log and not shown to the client.
func Error(c *gin.Context, err error) {
	code := Status(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

// BadRequest writes a 400 with msg.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
