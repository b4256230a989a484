// Package users declares the persistence contract for registered accounts
// and its Postgres implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/taskflow/internal/server/models"
)

type Repository interface {
	// Create stores a new user. A case-insensitive email collision yields
	// common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks the user up by lower-cased email; common.ErrNotFound
	// when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns common.ErrNotFound when absent.
	GetByID(ctx context.Context, id models.ID) (*models.User, error)
}
