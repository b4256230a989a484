// Package projects declares the persistence contract for projects and their
// member lists, and its Postgres implementation.
package projects

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/server/models"
)

type Repository interface {
	// Create stores the project together with its members.
	Create(ctx context.Context, project *models.Project) error

	// GetByID returns common.ErrNotFound when absent.
	GetByID(ctx context.Context, id models.ID) (*models.Project, error)

	// ListForUser returns projects owned by userID or listing it as a
	// member, newest first.
	ListForUser(ctx context.Context, userID models.ID) ([]*models.Project, error)

	// Update applies the present patch fields and returns the stored result.
	Update(ctx context.Context, id models.ID, patch models.ProjectPatch, updatedAt time.Time) (*models.Project, error)

	// AddMember is idempotent.
	AddMember(ctx context.Context, projectID, userID models.ID, updatedAt time.Time) error

	// RemoveMember returns common.ErrNotFound when userID is not a member.
	RemoveMember(ctx context.Context, projectID, userID models.ID, updatedAt time.Time) error

	// Delete removes the project and its member list. Tasks are not touched.
	Delete(ctx context.Context, id models.ID) error
}
