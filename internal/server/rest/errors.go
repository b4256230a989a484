package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP statuses and the message shown to
// the client. Anything unrecognised is a 500 with a generic message.
func statusFor(err error) (int, string) {
	var status int
	var fallback string

	switch {
	case errors.Is(err, common.ErrValidation):
		status, fallback = http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrConflict):
		status, fallback = http.StatusBadRequest, "conflict"
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		status, fallback = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrForbidden):
		status, fallback = http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrNotFound):
		status, fallback = http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal error"
	}

	var ce *common.Error
	if errors.As(err, &ce) && ce.Msg != "" {
		return status, ce.Msg
	}
	return status, fallback
}

func (h *handler) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", "error", err, "path", c.Request.URL.Path)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

func notFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": msg})
}
