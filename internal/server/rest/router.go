// Package rest exposes the TaskFlow services over HTTP using gin.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/dmitrijs2005/taskflow/internal/server/auth"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Pinger reports store liveness for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles what the handlers call into. Attachments may be nil, in
// which case the attachment routes are not registered.
type Services struct {
	Users       *services.UserService
	Projects    *services.ProjectService
	Tasks       *services.TaskService
	Attachments *services.AttachmentService
}

type handler struct {
	svc    Services
	health Pinger
	logger logging.Logger
}

// NewRouter builds the gin engine with the full route table. Middleware is
// composed explicitly: recovery and access log for everything, the access
// guard for the /api routes that need an identity.
func NewRouter(tokens *auth.TokenService, svc Services, health Pinger, logger logging.Logger) *gin.Engine {
	h := &handler{svc: svc, health: health, logger: logger}

	r := gin.New()
	r.Use(Recovery(logger), AccessLog(logger))

	r.GET("/healthz", h.healthz)

	api := r.Group("/api")

	public := api.Group("/auth")
	public.POST("/register", h.register)
	public.POST("/login", h.login)

	private := api.Group("")
	private.Use(AccessGuard(tokens, logger))

	private.GET("/auth/me", h.me)

	private.GET("/tasks", h.listTasks)
	private.POST("/tasks", h.createTask)
	private.GET("/tasks/:id", h.getTask)
	private.PUT("/tasks/:id", h.updateTask)
	private.PATCH("/tasks/:id", h.updateTask)
	private.DELETE("/tasks/:id", h.deleteTask)

	private.GET("/projects", h.listProjects)
	private.POST("/projects", h.createProject)
	private.GET("/projects/:id", h.getProject)
	private.PUT("/projects/:id", h.updateProject)
	private.PATCH("/projects/:id", h.updateProject)
	private.DELETE("/projects/:id", h.deleteProject)
	private.POST("/projects/:id/members", h.addMember)
	private.DELETE("/projects/:id/members/:userId", h.removeMember)

	if svc.Attachments != nil {
		private.POST("/tasks/:id/attachments", h.createAttachment)
		private.GET("/tasks/:id/attachments", h.listAttachments)
		private.GET("/tasks/:id/attachments/:attachmentId", h.getAttachment)
	}

	return r
}

func (h *handler) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		h.logger.Warn(ctx, "store ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// pathID parses a path parameter. A malformed id names nothing, so it is
// answered like a missing entity.
func pathID(c *gin.Context, name, notFoundMsg string) (models.ID, bool) {
	id, err := models.ParseID(c.Param(name))
	if err != nil {
		notFound(c, notFoundMsg)
		return models.NilID, false
	}
	return id, true
}

// caller returns the authenticated identity or aborts with 401.
func caller(c *gin.Context) (models.Identity, bool) {
	identity, ok := identityFrom(c)
	if !ok {
		unauthorized(c, "missing authorization header")
	}
	return identity, ok
}
