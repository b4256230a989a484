package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskflow/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/memory"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/projects"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/users"
)

// MemoryRepositoryManager serves every repository from one memory.Store.
type MemoryRepositoryManager struct {
	store       *memory.Store
	users       *memory.UserRepository
	projects    *memory.ProjectRepository
	tasks       *memory.TaskRepository
	attachments *memory.AttachmentRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	s := memory.NewStore()
	return &MemoryRepositoryManager{
		store:       s,
		users:       memory.NewUserRepository(s),
		projects:    memory.NewProjectRepository(s),
		tasks:       memory.NewTaskRepository(s),
		attachments: memory.NewAttachmentRepository(s),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository             { return m.users }
func (m *MemoryRepositoryManager) Projects() projects.Repository       { return m.projects }
func (m *MemoryRepositoryManager) Tasks() tasks.Repository             { return m.tasks }
func (m *MemoryRepositoryManager) Attachments() attachments.Repository { return m.attachments }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos RepositoryManager) error) error {
	return m.store.WithTx(ctx, func(ctx context.Context) error {
		return fn(ctx, m)
	})
}

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error  { return nil }
func (m *MemoryRepositoryManager) Close(ctx context.Context) error { return nil }
