package usecase

import (
	"context"

	"planning_backend/internal/feature/auth/domain/entity"
)

// UserRepository abstracts the identity store.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. A taken normalized user name yields ErrUserAlreadyExists.
	Create(ctx context.Context, user *entity.User) error

	// FindByName looks a user up by normalized user name. Missing users yield ErrUserNotFound.
	FindByName(ctx context.Context, normalizedName string) (*entity.User, error)

	// GetClaims returns every claim stored for the user.
	GetClaims(ctx context.Context, userID string) ([]entity.UserClaim, error)

	// AddClaims stores additional claims for the user.
	AddClaims(ctx context.Context, userID string, claims []entity.UserClaim) error

	// UpdatePasswordHash replaces the stored hash and rotates the security stamp.
	UpdatePasswordHash(ctx context.Context, userID, hash string) error

	// AddToRole adds the user to a role, creating the role when needed.
	AddToRole(ctx context.Context, userID, roleName string) error

	// GetRoles returns the names of the user's roles.
	GetRoles(ctx context.Context, userID string) ([]string, error)
}

// SessionRepository abstracts the persistence layer for sign-in sessions.
type SessionRepository interface {
	// Create persists a new session to the storage.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its ID.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke marks a session as revoked by setting RevokedAt.
	Revoke(ctx context.Context, id string) error
}
