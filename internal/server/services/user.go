// Package services contains server-side business logic. Services load
// entities through the repository manager, consult the ownership policy and
// apply mutations; they never see HTTP.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/auth"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/dmitrijs2005/taskflow/internal/server/repositories/repomanager"
)

// UserService handles registration, login and identity lookup.
type UserService struct {
	repos  repomanager.RepositoryManager
	tokens *auth.TokenService
	now    func() time.Time
}

func NewUserService(repos repomanager.RepositoryManager, tokens *auth.TokenService) *UserService {
	return &UserService{
		repos:  repos,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register creates an account and returns it with a freshly issued token.
// The email is stored trimmed and lower-cased; a case-insensitive duplicate
// yields an error matching common.ErrConflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, "", common.Errorf(common.ErrValidation, "name, email and password required")
	}
	if !strings.Contains(email, "@") {
		return nil, "", common.Errorf(common.ErrValidation, "invalid email")
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.repos.Users().Create(ctx, &models.User{
		ID:           models.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: digest,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, "", common.Errorf(common.ErrConflict, "email already registered")
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, "", fmt.Errorf("error issuing token: %w", err)
	}
	return user, token, nil
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password fail identically with common.ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", common.Errorf(common.ErrValidation, "email and password required")
	}

	user, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// burn the same bcrypt cost as a real comparison
			auth.VerifyPassword(password, dummyDigest())
			return nil, "", invalidCredentials()
		}
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, "", invalidCredentials()
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, "", fmt.Errorf("error issuing token: %w", err)
	}
	return user, token, nil
}

// Me returns the stored account behind identity. An identity whose account
// no longer exists is unauthorized.
func (s *UserService) Me(ctx context.Context, identity models.Identity) (*models.User, error) {
	user, err := s.repos.Users().GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf(common.ErrUnauthorized, "unknown user")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidCredentials() error {
	return common.Errorf(common.ErrUnauthorized, "invalid credentials")
}

var dummyDigest = sync.OnceValue(func() string {
	digest, _ := auth.HashPassword("taskflow-dummy-password")
	return digest
})
