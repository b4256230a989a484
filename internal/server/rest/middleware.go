package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/dmitrijs2005/taskflow/internal/server/auth"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/gin-gonic/gin"
)

// identityKey is the gin context key of the authenticated identity.
const identityKey = "identity"

// AccessGuard rejects requests without a valid bearer token. On success the
// identity is attached to the request context and the rest of the chain
// runs; otherwise the chain is aborted with 401.
func AccessGuard(tokens *auth.TokenService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
			unauthorized(c, "invalid authorization header")
			return
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			logger.Debug(c.Request.Context(), "token rejected", "error", err, "path", c.Request.URL.Path)
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Set(identityKey, identity)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// identityFrom returns the identity stored by AccessGuard.
func identityFrom(c *gin.Context) (models.Identity, bool) {
	return auth.IdentityFromContext(c.Request.Context())
}

// AccessLog writes one structured line per request.
func AccessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if identity, ok := identityFrom(c); ok {
			args = append(args, "user", identity.ID.String())
		}
		logger.Info(c.Request.Context(), "http request", args...)
	}
}

// Recovery turns panics into a 500 with the generic client message.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error(c.Request.Context(), "panic in handler", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}
