package memory

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/users"
)

var _ users.Repository = (*UserRepository)(nil)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	defer r.s.write(ctx)()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, common.ErrConflict
		}
	}

	r.s.users[user.ID] = *user
	stored := *user
	return &stored, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.s.read(ctx)()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *UserRepository) GetByID(ctx context.Context, id models.ID) (*models.User, error) {
	defer r.s.read(ctx)()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}
