package usecase

import (
	"context"

	"planning_backend/internal/config"
	"planning_backend/internal/feature/auth/domain/entity"
	jwtmw "planning_backend/internal/platform/jwt"
	"planning_backend/internal/platform/password"
)

// mockUserRepository is a mock implementation of UserRepository.
type mockUserRepository struct {
	CreateFunc             func(ctx context.Context, user *entity.User) error
	FindByNameFunc         func(ctx context.Context, normalizedName string) (*entity.User, error)
	GetClaimsFunc          func(ctx context.Context, userID string) ([]entity.UserClaim, error)
	AddClaimsFunc          func(ctx context.Context, userID string, claims []entity.UserClaim) error
	UpdatePasswordHashFunc func(ctx context.Context, userID, hash string) error
	AddToRoleFunc          func(ctx context.Context, userID, roleName string) error
	GetRolesFunc           func(ctx context.Context, userID string) ([]string, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByName(ctx context.Context, normalizedName string) (*entity.User, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, normalizedName)
	}
	// Default: return user not found error
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) GetClaims(ctx context.Context, userID string) ([]entity.UserClaim, error) {
	if m.GetClaimsFunc != nil {
		return m.GetClaimsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockUserRepository) AddClaims(ctx context.Context, userID string, claims []entity.UserClaim) error {
	if m.AddClaimsFunc != nil {
		return m.AddClaimsFunc(ctx, userID, claims)
	}
	return nil
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, userID, hash)
	}
	return nil
}

func (m *mockUserRepository) AddToRole(ctx context.Context, userID, roleName string) error {
	if m.AddToRoleFunc != nil {
		return m.AddToRoleFunc(ctx, userID, roleName)
	}
	return nil
}

func (m *mockUserRepository) GetRoles(ctx context.Context, userID string) ([]string, error) {
	if m.GetRolesFunc != nil {
		return m.GetRolesFunc(ctx, userID)
	}
	return nil, nil
}

// mockSessionRepository is a mock implementation of SessionRepository.
type mockSessionRepository struct {
	CreateFunc   func(ctx context.Context, session *entity.Session) error
	FindByIDFunc func(ctx context.Context, id string) (*entity.Session, error)
	RevokeFunc   func(ctx context.Context, id string) error
}

func (m *mockSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrSessionNotFound
}

func (m *mockSessionRepository) Revoke(ctx context.Context, id string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, id)
	}
	return nil
}

// mockTokenIssuer is a mock implementation of TokenIssuer.
type mockTokenIssuer struct {
	IssueFunc func(subject jwtmw.Subject) (jwtmw.Token, error)
}

func (m *mockTokenIssuer) Issue(subject jwtmw.Subject) (jwtmw.Token, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(subject)
	}
	return jwtmw.Token{Value: "mock-jwt-token"}, nil
}

// countingHasher wraps the real hasher and records dummy verifications.
type countingHasher struct {
	*password.Hasher
	dummyCalls int
}

func (h *countingHasher) VerifyDummy(plain string) {
	h.dummyCalls++
	h.Hasher.VerifyDummy(plain)
}

func newTestHasher() *countingHasher {
	return &countingHasher{Hasher: password.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    64,
		ArgonTime:        1,
		ArgonParallelism: 1,
	})}
}

type recordingObserver struct {
	logins []string
	tokens []string
}

func (o *recordingObserver) ObserveLogin(result string) { o.logins = append(o.logins, result) }
func (o *recordingObserver) ObserveToken(result string) { o.tokens = append(o.tokens, result) }
