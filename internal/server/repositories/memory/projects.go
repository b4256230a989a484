package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/projects"
)

var _ projects.Repository = (*ProjectRepository)(nil)

type ProjectRepository struct {
	s *Store
}

func NewProjectRepository(s *Store) *ProjectRepository {
	return &ProjectRepository{s: s}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	defer r.s.write(ctx)()

	p := cloneProject(*project)
	p.Members = slices.Compact(sortedIDs(p.Members))
	r.s.projects[p.ID] = p
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id models.ID) (*models.Project, error) {
	defer r.s.read(ctx)()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	p = cloneProject(p)
	return &p, nil
}

func (r *ProjectRepository) ListForUser(ctx context.Context, userID models.ID) ([]*models.Project, error) {
	defer r.s.read(ctx)()

	var result []*models.Project
	for _, p := range r.s.projects {
		if p.OwnerID == userID || p.HasMember(userID) {
			c := cloneProject(p)
			result = append(result, &c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id models.ID, patch models.ProjectPatch, updatedAt time.Time) (*models.Project, error) {
	defer r.s.write(ctx)()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	patch.Apply(&p, updatedAt)
	r.s.projects[id] = p

	c := cloneProject(p)
	return &c, nil
}

func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID models.ID, updatedAt time.Time) error {
	defer r.s.write(ctx)()

	p, ok := r.s.projects[projectID]
	if !ok {
		return common.ErrNotFound
	}
	p = cloneProject(p)
	if !p.HasMember(userID) {
		p.Members = sortedIDs(append(p.Members, userID))
	}
	p.UpdatedAt = updatedAt
	r.s.projects[projectID] = p
	return nil
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID models.ID, updatedAt time.Time) error {
	defer r.s.write(ctx)()

	p, ok := r.s.projects[projectID]
	if !ok || !p.HasMember(userID) {
		return common.ErrNotFound
	}
	p = cloneProject(p)
	p.Members = slices.DeleteFunc(p.Members, func(id models.ID) bool { return id == userID })
	p.UpdatedAt = updatedAt
	r.s.projects[projectID] = p
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id models.ID) error {
	defer r.s.write(ctx)()

	if _, ok := r.s.projects[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.projects, id)
	return nil
}

// sortedIDs orders ids by their text form, matching the Postgres listing.
func sortedIDs(ids []models.ID) []models.ID {
	slices.SortFunc(ids, func(a, b models.ID) int {
		switch as, bs := a.String(), b.String(); {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	})
	return ids
}
