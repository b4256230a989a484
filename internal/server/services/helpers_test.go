package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/server/auth"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

type fixture struct {
	repos       *repomanager.MemoryRepositoryManager
	tokens      *auth.TokenService
	users       *UserService
	projects    *ProjectService
	tasks       *TaskService
	attachments *AttachmentService
	presigner   *fakePresigner
	clock       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repos:     repomanager.NewMemoryRepositoryManager(),
		tokens:    auth.NewTokenService("test-secret", time.Hour),
		presigner: &fakePresigner{},
		clock:     t0,
	}
	now := func() time.Time { return f.clock }

	f.users = NewUserService(f.repos, f.tokens)
	f.users.now = now
	f.projects = NewProjectService(f.repos)
	f.projects.now = now
	f.tasks = NewTaskService(f.repos)
	f.tasks.now = now
	f.attachments = NewAttachmentService(f.repos, f.presigner)
	f.attachments.now = now
	return f
}

// user stores an account directly, skipping bcrypt.
func (f *fixture) user(t *testing.T, name string) models.Identity {
	t.Helper()
	u := &models.User{ID: models.NewID(), Name: name, Email: name + "@x.com", PasswordHash: "-", CreatedAt: t0}
	_, err := f.repos.Users().Create(context.Background(), u)
	require.NoError(t, err)
	return u.Identity()
}

func (f *fixture) task(t *testing.T, owner models.Identity, in NewTask) *models.Task {
	t.Helper()
	if in.Title == "" {
		in.Title = "task"
	}
	task, err := f.tasks.Create(context.Background(), owner, in)
	require.NoError(t, err)
	return task
}

type fakePresigner struct {
	putErr error
	getErr error
	puts   []string
	gets   []string
}

func (p *fakePresigner) PresignPut(ctx context.Context, key string) (string, error) {
	if p.putErr != nil {
		return "", p.putErr
	}
	p.puts = append(p.puts, key)
	return "https://s3.local/put/" + key, nil
}

func (p *fakePresigner) PresignGet(ctx context.Context, key string) (string, error) {
	if p.getErr != nil {
		return "", p.getErr
	}
	p.gets = append(p.gets, key)
	return "https://s3.local/get/" + key, nil
}

func ptr[T any](v T) *T { return &v }
