package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planning_backend/internal/feature/auth/domain/entity"
	"planning_backend/internal/feature/auth/usecase"
)

func newSession(id string, expiresAt time.Time) *entity.Session {
	return &entity.Session{
		ID:        id,
		UserID:    "u-1",
		Username:  "jdoe",
		UserAgent: "Mozilla/5.0",
		IPAddress: "192.168.1.1",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
}

func TestSessionGorm_CreateAndFind(t *testing.T) {
	repo := NewSessionGorm(setupTestDB(t))
	ctx := context.Background()
	s := newSession("sess-1", time.Now().Add(time.Hour).UTC())

	require.NoError(t, repo.Create(ctx, s))

	found, err := repo.FindByID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", found.UserID)
	assert.Equal(t, "jdoe", found.Username)
	assert.Equal(t, "192.168.1.1", found.IPAddress)
	assert.True(t, found.IsValid())
}

func TestSessionGorm_FindByID_NotFound(t *testing.T) {
	repo := NewSessionGorm(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), "missing")

	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionGorm_Revoke(t *testing.T) {
	repo := NewSessionGorm(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("sess-1", time.Now().Add(time.Hour).UTC())))

	require.NoError(t, repo.Revoke(ctx, "sess-1"))

	found, err := repo.FindByID(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, found.IsRevoked())
	assert.False(t, found.IsValid())

	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)
}

func TestSessionGorm_DeleteExpired(t *testing.T) {
	repo := NewSessionGorm(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newSession("live", time.Now().Add(time.Hour).UTC())))
	require.NoError(t, repo.Create(ctx, newSession("old-1", time.Now().Add(-time.Hour).UTC())))
	require.NoError(t, repo.Create(ctx, newSession("old-2", time.Now().Add(-2*time.Hour).UTC())))

	deleted, err := repo.DeleteExpired(ctx)

	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
	_, err = repo.FindByID(ctx, "live")
	assert.NoError(t, err)
}
