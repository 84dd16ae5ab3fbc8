package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planning_backend/internal/feature/auth/domain/entity"
	"planning_backend/internal/feature/auth/usecase"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

// createTestSession creates a session entity for testing.
func createTestSession(id string, expiresIn time.Duration) *entity.Session {
	now := time.Now().UTC()
	return &entity.Session{
		ID:        id,
		UserID:    "user-1",
		Username:  "jdoe",
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestNewSessionRedis(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.client, "client is nil")
	assert.Equal(t, "session", repo.prefix)
	assert.Equal(t, "session:abc", repo.sessionKey("abc"))
}

func TestSessionRedis_Create(t *testing.T) {
	tests := []struct {
		name    string
		session *entity.Session
		wantErr bool
	}{
		{"success: create session", createTestSession("session-001", 24*time.Hour), false},
		{"failure: expired session", createTestSession("expired-session", -time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mr := setupTestRedis(t)
			repo := NewSessionRedis(client, "session")

			err := repo.Create(context.Background(), tt.session)

			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, mr.Exists("session:"+tt.session.ID))
				return
			}
			require.NoError(t, err)
			assert.True(t, mr.Exists("session:"+tt.session.ID))
			ttl := mr.TTL("session:" + tt.session.ID)
			assert.Greater(t, ttl, 23*time.Hour)
			assert.LessOrEqual(t, ttl, 24*time.Hour)
		})
	}
}

func TestSessionRedis_FindByID(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, createTestSession("session-001", time.Hour)))

	found, err := repo.FindByID(ctx, "session-001")
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.UserID)
	assert.Equal(t, "jdoe", found.Username)
	assert.True(t, found.IsValid())

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_FindByID_Expired(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, createTestSession("session-001", time.Hour)))

	mr.FastForward(2 * time.Hour)

	_, err := repo.FindByID(ctx, "session-001")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_FindByID_CorruptValue(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := repo.FindByID(context.Background(), "bad")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_Revoke(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, createTestSession("session-001", time.Hour)))

	require.NoError(t, repo.Revoke(ctx, "session-001"))

	found, err := repo.FindByID(ctx, "session-001")
	require.NoError(t, err)
	assert.True(t, found.IsRevoked())
	assert.Greater(t, mr.TTL("session:session-001"), time.Duration(0), "revocation keeps the ttl")

	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)
}

func TestSessionRedis_ConnectionErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()
	boom := errors.New("connection refused")

	mock.ExpectGet("session:s1").SetErr(boom)
	_, err := repo.FindByID(ctx, "s1")
	assert.ErrorIs(t, err, boom)

	mock.ExpectGet("session:s2").SetErr(boom)
	assert.ErrorIs(t, repo.Revoke(ctx, "s2"), boom)

	mock.ExpectGet("session:s3").RedisNil()
	_, err = repo.FindByID(ctx, "s3")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
