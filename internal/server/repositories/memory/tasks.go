package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/tasks"
)

var _ tasks.Repository = (*TaskRepository)(nil)

type TaskRepository struct {
	s *Store
}

func NewTaskRepository(s *Store) *TaskRepository {
	return &TaskRepository{s: s}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	defer r.s.write(ctx)()

	r.s.tasks[task.ID] = *task
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id models.ID) (*models.Task, error) {
	defer r.s.read(ctx)()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &t, nil
}

func (r *TaskRepository) ListForUser(ctx context.Context, userID models.ID, filter models.TaskFilter) ([]*models.Task, error) {
	defer r.s.read(ctx)()

	var result []*models.Task
	for _, t := range r.s.tasks {
		if t.OwnerID != userID && t.AssigneeID != userID {
			continue
		}
		if !filter.ProjectID.IsZero() && t.ProjectID != filter.ProjectID {
			continue
		}
		result = append(result, &t)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *TaskRepository) Update(ctx context.Context, id models.ID, patch models.TaskPatch, updatedAt time.Time) (*models.Task, error) {
	defer r.s.write(ctx)()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	patch.Apply(&t, updatedAt)
	r.s.tasks[id] = t
	return &t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id models.ID) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.tasks[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID models.ID) (int64, error) {
	defer r.s.write(ctx)()

	var n int64
	for id, t := range r.s.tasks {
		if t.ProjectID == projectID {
			delete(r.s.tasks, id)
			n++
		}
	}
	return n, nil
}
