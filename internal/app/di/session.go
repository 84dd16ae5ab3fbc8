// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "planning_backend/internal/feature/auth/adapters"
	"planning_backend/internal/feature/auth/usecase"
	"planning_backend/internal/platform/session"
)

// SessionKeyPrefix namespaces session keys in Redis.
const SessionKeyPrefix = "planning:session"

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the SQL sessions table.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, SessionKeyPrefix)
	}
	return authadapters.NewSessionGorm(db)
}
