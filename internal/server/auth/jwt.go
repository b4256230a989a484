// Package auth issues and verifies identity tokens and password digests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: the registered sub and exp claims plus the
// identity's name and email.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GenerateToken signs an HS256 token for identity that expires
// validityDuration after now. A non-positive duration yields a token that is
// already expired.
func GenerateToken(identity models.Identity, secretKey []byte, validityDuration time.Duration, now time.Time) (string, error) {
	if identity.ID.IsZero() {
		return "", fmt.Errorf("%w: identity without id", common.ErrValidation)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Name:  identity.Name,
		Email: identity.Email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString against secretKey at time now and returns
// the identity it asserts. Failures are one of common.ErrTokenExpired,
// common.ErrTokenSignatureMismatch or common.ErrTokenMalformed.
func ParseToken(tokenString string, secretKey []byte, now time.Time) (models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return models.Identity{}, common.ErrTokenSignatureMismatch
		case errors.Is(err, jwt.ErrTokenExpired):
			return models.Identity{}, common.ErrTokenExpired
		default:
			return models.Identity{}, fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
		}
	}

	if !token.Valid {
		return models.Identity{}, common.ErrTokenMalformed
	}

	id, err := models.ParseID(claims.Subject)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: bad subject", common.ErrTokenMalformed)
	}
	if claims.Name == "" || claims.Email == "" {
		return models.Identity{}, fmt.Errorf("%w: missing identity claims", common.ErrTokenMalformed)
	}

	return models.Identity{ID: id, Name: claims.Name, Email: claims.Email}, nil
}

// TokenService binds the server secret and token lifetime. It is built once
// at startup and shared read-only by every request.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenService returns a TokenService. A non-positive ttl falls back to
// common.DefaultTokenTTL.
func NewTokenService(secretKey string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = common.DefaultTokenTTL
	}
	return &TokenService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for identity valid for the configured TTL.
func (s *TokenService) Issue(identity models.Identity) (string, error) {
	return GenerateToken(identity, s.secretKey, s.ttl, s.now())
}

// IssueWithTTL signs a token with an explicit lifetime. Tokens must expire in
// the future, so a non-positive ttl is rejected.
func (s *TokenService) IssueWithTTL(identity models.Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("%w: token ttl must be positive, got %s", common.ErrValidation, ttl)
	}
	return GenerateToken(identity, s.secretKey, ttl, s.now())
}

// Verify checks signature and expiry and returns the asserted identity.
func (s *TokenService) Verify(tokenString string) (models.Identity, error) {
	return ParseToken(tokenString, s.secretKey, s.now())
}
