package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is a seam for tests.
var bcryptCost = bcrypt.DefaultCost

// HashPassword returns a salted bcrypt digest of password. Two calls with the
// same input produce different digests, both of which VerifyPassword accepts.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrValidation)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password too long", common.ErrValidation)
		}
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(digest), nil
}

// VerifyPassword reports whether password matches digest. Malformed digests
// simply do not match.
func VerifyPassword(password, digest string) bool {
	if password == "" || digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
