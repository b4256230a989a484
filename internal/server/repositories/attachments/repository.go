// Package attachments stores metadata of task attachments. Blobs live in
// object storage under Attachment.StorageKey.
package attachments

import (
	"context"

	"github.com/dmitrijs2005/taskflow/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Attachment) error

	// GetByID returns common.ErrNotFound when absent.
	GetByID(ctx context.Context, id models.ID) (*models.Attachment, error)

	// ListByTask returns the task's attachments, oldest first.
	ListByTask(ctx context.Context, taskID models.ID) ([]*models.Attachment, error)

	DeleteByTask(ctx context.Context, taskID models.ID) error

	// DeleteByProject removes attachments of every task in the project.
	DeleteByProject(ctx context.Context, projectID models.ID) error
}
