package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin_TokenSubjectMatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, token, err := f.users.Register(ctx, "Ann", " Ann@X.com ", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", user.Email)
	assert.Equal(t, t0, user.CreatedAt)

	identity, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)

	loggedIn, token2, err := f.users.Login(ctx, "ANN@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	identity, err = f.tokens.Verify(token2)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{ID: user.ID, Name: "Ann", Email: "ann@x.com"}, identity)
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.users.Register(ctx, "Ann", "a@x.com", "pw")
	require.NoError(t, err)

	_, _, err = f.users.Register(ctx, "Other", "A@x.com", "pw2")
	require.ErrorIs(t, err, common.ErrConflict)
	assert.EqualError(t, err, "email already registered")
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	for _, tc := range []struct{ name, email, password string }{
		{"", "a@x.com", "pw"},
		{"Ann", "  ", "pw"},
		{"Ann", "a@x.com", ""},
		{"Ann", "not-an-email", "pw"},
	} {
		_, _, err := f.users.Register(context.Background(), tc.name, tc.email, tc.password)
		assert.ErrorIs(t, err, common.ErrValidation, "%+v", tc)
	}
}

func TestLogin_FailuresAreUniform(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.users.Register(ctx, "Ann", "ann@x.com", "pw1")
	require.NoError(t, err)

	_, _, wrongPassword := f.users.Login(ctx, "ann@x.com", "nope")
	_, _, unknownEmail := f.users.Login(ctx, "bob@x.com", "pw1")

	for _, err := range []error{wrongPassword, unknownEmail} {
		assert.ErrorIs(t, err, common.ErrUnauthorized)
		assert.EqualError(t, err, "invalid credentials")
	}

	_, _, err = f.users.Login(ctx, "", "pw1")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ann := f.user(t, "ann")
	got, err := f.users.Me(ctx, ann)
	require.NoError(t, err)
	assert.Equal(t, ann.Email, got.Email)

	_, err = f.users.Me(ctx, models.Identity{ID: models.NewID(), Name: "ghost", Email: "g@x.com"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
