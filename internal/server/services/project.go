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

type ProjectService struct {
	repos repomanager.RepositoryManager
	now   func() time.Time
}

func NewProjectService(repos repomanager.RepositoryManager) *ProjectService {
	return &ProjectService{repos: repos, now: time.Now}
}

// List returns the projects identity owns or is a member of.
func (s *ProjectService) List(ctx context.Context, identity models.Identity) ([]*models.Project, error) {
	projects, err := s.repos.Projects().ListForUser(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	return projects, nil
}

// Create stores a project owned by identity, which is also its first member.
func (s *ProjectService) Create(ctx context.Context, identity models.Identity, name, description string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Errorf(common.ErrValidation, "name required")
	}

	now := s.now().UTC()
	project := &models.Project{
		ID:          models.NewID(),
		Name:        name,
		Description: description,
		OwnerID:     identity.ID,
		Members:     []models.ID{identity.ID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.Projects().Create(ctx, project); err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) load(ctx context.Context, id models.ID) (*models.Project, error) {
	project, err := s.repos.Projects().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrNotFound, "project not found")
		}
		return nil, fmt.Errorf("error loading project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, identity models.Identity, id models.ID) (*models.Project, error) {
	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeProject(policy.Read, identity, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update applies the present fields of patch. An empty patch returns the
// project unchanged.
func (s *ProjectService) Update(ctx context.Context, identity models.Identity, id models.ID, patch models.ProjectPatch) (*models.Project, error) {
	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeProject(policy.Write, identity, project); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, common.Errorf(common.ErrValidation, "name must not be empty")
		}
		patch.Name = &name
	}
	if patch.Empty() {
		return project, nil
	}

	updated, err := s.repos.Projects().Update(ctx, id, patch, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("error updating project: %w", err)
	}
	return updated, nil
}

// Delete removes the project together with its tasks and their attachment
// records in one transaction.
func (s *ProjectService) Delete(ctx context.Context, identity models.Identity, id models.ID) error {
	project, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeProject(policy.Delete, identity, project); err != nil {
		return err
	}

	return s.repos.WithTx(ctx, func(ctx context.Context, repos repomanager.RepositoryManager) error {
		if err := repos.Attachments().DeleteByProject(ctx, id); err != nil {
			return fmt.Errorf("error deleting attachments: %w", err)
		}
		if _, err := repos.Tasks().DeleteByProject(ctx, id); err != nil {
			return fmt.Errorf("error deleting tasks: %w", err)
		}
		if err := repos.Projects().Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting project: %w", err)
		}
		return nil
	})
}

// AddMember adds an existing user to the project. Owner only; adding a
// current member is a no-op apart from UpdatedAt.
func (s *ProjectService) AddMember(ctx context.Context, identity models.Identity, projectID, userID models.ID) (*models.Project, error) {
	project, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeProject(policy.ManageMembers, identity, project); err != nil {
		return nil, err
	}

	if userID.IsZero() {
		return nil, common.Errorf(common.ErrValidation, "userId required")
	}
	if _, err := s.repos.Users().GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrValidation, "unknown user")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := s.repos.Projects().AddMember(ctx, projectID, userID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("error adding member: %w", err)
	}
	return s.load(ctx, projectID)
}

// RemoveMember drops userID from the project. Owner only; the owner itself
// cannot be removed.
func (s *ProjectService) RemoveMember(ctx context.Context, identity models.Identity, projectID, userID models.ID) (*models.Project, error) {
	project, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeProject(policy.ManageMembers, identity, project); err != nil {
		return nil, err
	}

	if userID == project.OwnerID {
		return nil, common.Errorf(common.ErrValidation, "owner cannot be removed")
	}
	if err := s.repos.Projects().RemoveMember(ctx, projectID, userID, s.now().UTC()); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrNotFound, "member not found")
		}
		return nil, fmt.Errorf("error removing member: %w", err)
	}
	return s.load(ctx, projectID)
}
