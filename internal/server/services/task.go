package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/policy"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/repomanager"
)

// NewTask is the input of TaskService.Create. Empty Priority and Status
// fall back to low and todo.
type NewTask struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	DueDate     string
	Assignee    string
	AssigneeID  models.ID
	ProjectID   models.ID
}

type TaskService struct {
	repos repomanager.RepositoryManager
	now   func() time.Time
}

func NewTaskService(repos repomanager.RepositoryManager) *TaskService {
	return &TaskService{repos: repos, now: time.Now}
}

// List returns tasks identity owns or is assigned to, newest first.
func (s *TaskService) List(ctx context.Context, identity models.Identity, filter models.TaskFilter) ([]*models.Task, error) {
	tasks, err := s.repos.Tasks().ListForUser(ctx, identity.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return tasks, nil
}

// Create stores a task owned by identity. The creator, the project and the
// assignee, when given, must exist; a project additionally requires write
// permission.
func (s *TaskService) Create(ctx context.Context, identity models.Identity, in NewTask) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, common.Errorf(common.ErrValidation, "title required")
	}

	priority := models.PriorityLow
	if strings.TrimSpace(in.Priority) != "" {
		p, err := models.ParsePriority(in.Priority)
		if err != nil {
			return nil, common.Errorf(common.ErrValidation, "priority must be one of low, medium, high")
		}
		priority = p
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = models.StatusTodo
	}

	if err := validateDueDate(in.DueDate); err != nil {
		return nil, err
	}

	if _, err := s.repos.Users().GetByID(ctx, identity.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrUnauthorized, "unknown user")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !in.ProjectID.IsZero() {
		project, err := s.repos.Projects().GetByID(ctx, in.ProjectID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.Errorf(common.ErrValidation, "unknown project")
			}
			return nil, fmt.Errorf("error loading project: %w", err)
		}
		if err := policy.AuthorizeProject(policy.Write, identity, project); err != nil {
			return nil, err
		}
	}

	if err := s.checkAssignee(ctx, in.AssigneeID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:          models.NewID(),
		OwnerID:     identity.ID,
		ProjectID:   in.ProjectID,
		Title:       title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    priority,
		Status:      status,
		DueDate:     strings.TrimSpace(in.DueDate),
		Assignee:    in.Assignee,
		AssigneeID:  in.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.Tasks().Create(ctx, task); err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

func (s *TaskService) load(ctx context.Context, id models.ID) (*models.Task, error) {
	task, err := s.repos.Tasks().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrNotFound, "task not found")
		}
		return nil, fmt.Errorf("error loading task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, identity models.Identity, id models.ID) (*models.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeTask(policy.Read, identity, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies the present fields of patch and refreshes UpdatedAt. Only
// the owner or the assignee may update. An empty patch returns the task
// unchanged.
func (s *TaskService) Update(ctx context.Context, identity models.Identity, id models.ID, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeTask(policy.Write, identity, task); err != nil {
		return nil, err
	}

	if err := s.normalizePatch(ctx, &patch); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return task, nil
	}

	updated, err := s.repos.Tasks().Update(ctx, id, patch, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return updated, nil
}

// Delete removes the task and its attachment records. Owner only.
func (s *TaskService) Delete(ctx context.Context, identity models.Identity, id models.ID) error {
	task, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeTask(policy.Delete, identity, task); err != nil {
		return err
	}

	return s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.RepositoryManager) error {
		if err := repos.Attachments().DeleteByTask(ctx, id); err != nil {
			return fmt.Errorf("error deleting attachments: %w", err)
		}
		if err := repos.Tasks().Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting task: %w", err)
		}
		return nil
	})
}

func (s *TaskService) normalizePatch(ctx context.Context, patch *models.TaskPatch) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return common.Errorf(common.ErrValidation, "title must not be empty")
		}
		patch.Title = &title
	}
	if patch.Priority != nil {
		p, err := models.ParsePriority(string(*patch.Priority))
		if err != nil {
			return common.Errorf(common.ErrValidation, "priority must be one of low, medium, high")
		}
		patch.Priority = &p
	}
	if patch.Status != nil {
		status := strings.TrimSpace(*patch.Status)
		if status == "" {
			return common.Errorf(common.ErrValidation, "status must not be empty")
		}
		patch.Status = &status
	}
	if patch.DueDate != nil {
		due := strings.TrimSpace(*patch.DueDate)
		if err := validateDueDate(due); err != nil {
			return err
		}
		patch.DueDate = &due
	}
	if patch.AssigneeID != nil {
		if err := s.checkAssignee(ctx, *patch.AssigneeID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TaskService) checkAssignee(ctx context.Context, id models.ID) error {
	if id.IsZero() {
		return nil
	}
	if _, err := s.repos.Users().GetByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Errorf(common.ErrValidation, "unknown assignee")
		}
		return fmt.Errorf("error loading assignee: %w", err)
	}
	return nil
}

func validateDueDate(due string) error {
	due = strings.TrimSpace(due)
	if due == "" {
		return nil
	}
	if _, err := time.Parse(models.DueDateLayout, due); err != nil {
		return common.Errorf(common.ErrValidation, "dueDate must be YYYY-MM-DD")
	}
	return nil
}
