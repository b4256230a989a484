// Package tasks declares the persistence contract for tasks and its Postgres
// implementation.
package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) error

	// GetByID returns common.ErrNotFound when absent.
	GetByID(ctx context.Context, id models.ID) (*models.Task, error)

	// ListForUser returns tasks owned by or assigned to userID, newest
	// first, narrowed by filter.
	ListForUser(ctx context.Context, userID models.ID, filter models.TaskFilter) ([]*models.Task, error)

	// Update sets only the present patch fields plus updated_at in a single
	// write and returns the stored result.
	Update(ctx context.Context, id models.ID, patch models.TaskPatch, updatedAt time.Time) (*models.Task, error)

	// Delete returns common.ErrNotFound when absent.
	Delete(ctx context.Context, id models.ID) error

	// DeleteByProject removes every task of the project and returns how many
	// were removed.
	DeleteByProject(ctx context.Context, projectID models.ID) (int64, error)
}
