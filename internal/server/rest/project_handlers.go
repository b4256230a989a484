package rest

import (
	"net/http"

	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/gin-gonic/gin"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	UserID models.ID `json:"userId"`
}

func (h *handler) listProjects(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	projects, err := h.svc.Projects.List(c.Request.Context(), identity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *handler) createProject(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	project, err := h.svc.Projects.Create(c.Request.Context(), identity, req.Name, req.Description)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (h *handler) getProject(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "project not found")
	if !ok {
		return
	}

	project, err := h.svc.Projects.Get(c.Request.Context(), identity, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *handler) updateProject(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "project not found")
	if !ok {
		return
	}

	var body patchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	patch, err := body.projectPatch()
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	project, err := h.svc.Projects.Update(c.Request.Context(), identity, id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *handler) deleteProject(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "project not found")
	if !ok {
		return
	}

	if err := h.svc.Projects.Delete(c.Request.Context(), identity, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "deleted"})
}

func (h *handler) addMember(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "project not found")
	if !ok {
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	project, err := h.svc.Projects.AddMember(c.Request.Context(), identity, id, req.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *handler) removeMember(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id", "project not found")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId", "member not found")
	if !ok {
		return
	}

	project, err := h.svc.Projects.RemoveMember(c.Request.Context(), identity, id, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}
