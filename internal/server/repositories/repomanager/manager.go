// Package repomanager vends the repositories of one storage backend and runs
// multi-repository work inside that backend's transaction.
package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskflow/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/projects"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/users"
)

type RepositoryManager interface {
	// RunMigrations brings the schema (or indexes) up to date.
	RunMigrations(ctx context.Context) error

	Users() users.Repository
	Projects() projects.Repository
	Tasks() tasks.Repository
	Attachments() attachments.Repository

	// WithTx runs fn with repositories bound to one transaction. Changes are
	// committed when fn returns nil and discarded otherwise. Nested calls
	// join the outer transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, repos RepositoryManager) error) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open picks the backend from the DSN scheme: "memory", "postgres://" (or
// "postgresql://") and "mongodb://" (or "mongodb+srv://"). mongoDatabase
// names the database used by the Mongo backend.
func Open(ctx context.Context, dsn, mongoDatabase string) (RepositoryManager, error) {
	switch {
	case dsn == "" || dsn == "memory":
		return NewMemoryRepositoryManager(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresRepositoryManager(dsn)
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return NewMongoRepositoryManager(ctx, dsn, mongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported database dsn scheme: %q", schemeOf(dsn))
	}
}

func schemeOf(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i]
	}
	return dsn
}
