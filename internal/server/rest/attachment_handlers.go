package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createAttachmentRequest struct {
	FileName string `json:"fileName"`
}

func (h *handler) createAttachment(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id", "task not found")
	if !ok {
		return
	}

	var req createAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	a, uploadURL, err := h.svc.Attachments.Create(c.Request.Context(), identity, taskID, req.FileName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"attachment": a, "uploadUrl": uploadURL})
}

func (h *handler) listAttachments(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id", "task not found")
	if !ok {
		return
	}

	list, err := h.svc.Attachments.List(c.Request.Context(), identity, taskID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachments": list})
}

func (h *handler) getAttachment(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id", "task not found")
	if !ok {
		return
	}
	attachmentID, ok := pathID(c, "attachmentId", "attachment not found")
	if !ok {
		return
	}

	a, downloadURL, err := h.svc.Attachments.Get(c.Request.Context(), identity, taskID, attachmentID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachment": a, "downloadUrl": downloadURL})
}
