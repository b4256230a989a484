package rest

import (
	"net/http"

	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/services"
	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	DueDate     string    `json:"dueDate"`
	Assignee    string    `json:"assignee"`
	AssigneeID  models.ID `json:"assigneeId"`
	ProjectID   models.ID `json:"projectId"`
}

func (h *handler) listTasks(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var filter models.TaskFilter
	if raw := c.Query("projectId"); raw != "" {
		id, err := models.ParseID(raw)
		if err != nil {
			badRequest(c, "invalid projectId")
			return
		}
		filter.ProjectID = id
	}

	tasks, err := h.svc.Tasks.List(c.Request.Context(), identity, filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *handler) createTask(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	task, err := h.svc.Tasks.Create(c.Request.Context(), identity, services.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
		Assignee:    req.Assignee,
		AssigneeID:  req.AssigneeID,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *handler) getTask(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "task not found")
	if !ok {
		return
	}

	task, err := h.svc.Tasks.Get(c.Request.Context(), identity, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *handler) updateTask(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "task not found")
	if !ok {
		return
	}

	var body patchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	patch, err := body.taskPatch()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	task, err := h.svc.Tasks.Update(c.Request.Context(), identity, id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *handler) deleteTask(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "task not found")
	if !ok {
		return
	}

	if err := h.svc.Tasks.Delete(c.Request.Context(), identity, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "deleted"})
}
