package context

import (
	"context"
	"testing"

	"github.com/octabyte/yoga-studio/models"
	"github.com/stretchr/testify/assert"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := GetSessionFromContext(ctx)
	assert.False(t, ok)
	assert.Empty(t, GetTokenFromContext(ctx))

	ctx = WithSession(ctx, models.SessionInformation{ID: 4, Username: "member@studio.com"})
	ctx = WithToken(ctx, "jwt")

	info, ok := GetSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(4), info.ID)
	assert.Equal(t, "jwt", GetTokenFromContext(ctx))
}

func TestKeysDoNotCollideWithStrings(t *testing.T) {
	ctx := context.WithValue(context.Background(), "requestToken", "raw") //nolint:staticcheck
	assert.Empty(t, GetTokenFromContext(ctx))
}
