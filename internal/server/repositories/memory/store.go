// Package memory implements every repository contract over process memory.
// It backs local runs and tests; all state is lost on restart.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/dmitrijs2005/taskflow/internal/server/models"
)

type txKey struct{}

// Store holds the maps shared by the repositories of one in-memory database.
type Store struct {
	mu          sync.RWMutex
	users       map[models.ID]models.User
	projects    map[models.ID]models.Project
	tasks       map[models.ID]models.Task
	attachments map[models.ID]models.Attachment
}

func NewStore() *Store {
	return &Store{
		users:       make(map[models.ID]models.User),
		projects:    make(map[models.ID]models.Project),
		tasks:       make(map[models.ID]models.Task),
		attachments: make(map[models.ID]models.Attachment),
	}
}

// inTx reports whether ctx belongs to a transaction that already holds the
// store's write lock.
func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

func (s *Store) read(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) write(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	users       map[models.ID]models.User
	projects    map[models.ID]models.Project
	tasks       map[models.ID]models.Task
	attachments map[models.ID]models.Attachment
}

func (s *Store) snapshot() snapshot {
	projects := make(map[models.ID]models.Project, len(s.projects))
	for id, p := range s.projects {
		projects[id] = cloneProject(p)
	}
	return snapshot{
		users:       maps.Clone(s.users),
		projects:    projects,
		tasks:       maps.Clone(s.tasks),
		attachments: maps.Clone(s.attachments),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.projects = snap.projects
	s.tasks = snap.tasks
	s.attachments = snap.attachments
}

// WithTx runs fn holding the store lock exclusively. Repository calls made
// with the context passed to fn do not lock again. When fn fails or panics
// every change it made is discarded.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

func cloneProject(p models.Project) models.Project {
	p.Members = append([]models.ID(nil), p.Members...)
	return p
}
