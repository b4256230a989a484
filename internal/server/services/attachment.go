package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/policy"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/repomanager"
)

// AttachmentService records files attached to tasks. Blobs go straight from
// the client to object storage through presigned URLs; the server stores
// metadata only.
type AttachmentService struct {
	repos     repomanager.RepositoryManager
	presigner Presigner
	now       func() time.Time
}

func NewAttachmentService(repos repomanager.RepositoryManager, presigner Presigner) *AttachmentService {
	return &AttachmentService{repos: repos, presigner: presigner, now: time.Now}
}

func (s *AttachmentService) loadTask(ctx context.Context, action policy.Action, identity models.Identity, taskID models.ID) (*models.Task, error) {
	task, err := s.repos.Tasks().GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrNotFound, "task not found")
		}
		return nil, fmt.Errorf("error loading task: %w", err)
	}
	if err := policy.AuthorizeTask(action, identity, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Create registers an attachment on a task the identity may write and
// returns it with a presigned upload URL.
func (s *AttachmentService) Create(ctx context.Context, identity models.Identity, taskID models.ID, fileName string) (*models.Attachment, string, error) {
	fileName = path.Base(strings.TrimSpace(strings.ReplaceAll(fileName, "\\", "/")))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, "", common.Errorf(common.ErrValidation, "fileName required")
	}

	task, err := s.loadTask(ctx, policy.Write, identity, taskID)
	if err != nil {
		return nil, "", err
	}

	now := s.now().UTC()
	a := &models.Attachment{
		ID:         models.NewID(),
		TaskID:     task.ID,
		FileName:   fileName,
		StorageKey: storageKey(task.ID, now),
		UploadedBy: identity.ID,
		CreatedAt:  now,
	}

	url, err := s.presigner.PresignPut(ctx, a.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning upload: %w", err)
	}

	if err := s.repos.Attachments().Create(ctx, a); err != nil {
		return nil, "", fmt.Errorf("error creating attachment: %w", err)
	}
	return a, url, nil
}

// List returns the attachments of a task the identity may read.
func (s *AttachmentService) List(ctx context.Context, identity models.Identity, taskID models.ID) ([]*models.Attachment, error) {
	if _, err := s.loadTask(ctx, policy.Read, identity, taskID); err != nil {
		return nil, err
	}

	list, err := s.repos.Attachments().ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}
	if list == nil {
		list = []*models.Attachment{}
	}
	return list, nil
}

// Get returns one attachment of the task with a presigned download URL.
func (s *AttachmentService) Get(ctx context.Context, identity models.Identity, taskID, attachmentID models.ID) (*models.Attachment, string, error) {
	if _, err := s.loadTask(ctx, policy.Read, identity, taskID); err != nil {
		return nil, "", err
	}

	a, err := s.repos.Attachments().GetByID(ctx, attachmentID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, "", fmt.Errorf("error loading attachment: %w", err)
	}
	if err != nil || a.TaskID != taskID {
		return nil, "", common.Errorf(common.ErrNotFound, "attachment not found")
	}

	url, err := s.presigner.PresignGet(ctx, a.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning download: %w", err)
	}
	return a, url, nil
}
