package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	identity := testIdentity()
	got, ok := IdentityFromContext(WithIdentity(context.Background(), identity))
	assert.True(t, ok)
	assert.Equal(t, identity, got)
}
