package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/attachments"
)

var _ attachments.Repository = (*AttachmentRepository)(nil)

type AttachmentRepository struct {
	s *Store
}

func NewAttachmentRepository(s *Store) *AttachmentRepository {
	return &AttachmentRepository{s: s}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	defer r.s.write(ctx)()

	r.s.attachments[a.ID] = *a
	return nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id models.ID) (*models.Attachment, error) {
	defer r.s.read(ctx)()

	a, ok := r.s.attachments[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &a, nil
}

func (r *AttachmentRepository) ListByTask(ctx context.Context, taskID models.ID) ([]*models.Attachment, error) {
	defer r.s.read(ctx)()

	var result []*models.Attachment
	for _, a := range r.s.attachments {
		if a.TaskID == taskID {
			result = append(result, &a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *AttachmentRepository) DeleteByTask(ctx context.Context, taskID models.ID) error {
	defer r.s.write(ctx)()

	for id, a := range r.s.attachments {
		if a.TaskID == taskID {
			delete(r.s.attachments, id)
		}
	}
	return nil
}

func (r *AttachmentRepository) DeleteByProject(ctx context.Context, projectID models.ID) error {
	defer r.s.write(ctx)()

	for id, a := range r.s.attachments {
		if t, ok := r.s.tasks[a.TaskID]; ok && t.ProjectID == projectID {
			delete(r.s.attachments, id)
		}
	}
	return nil
}
