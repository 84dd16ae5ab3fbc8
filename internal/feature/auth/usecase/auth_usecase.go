package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"planning_backend/internal/feature/auth/domain/entity"
	jwtmw "planning_backend/internal/platform/jwt"
	"planning_backend/internal/platform/logger"
	"planning_backend/internal/shared/validation"
)

// TokenIssuer はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenIssuer interface {
	Issue(subject jwtmw.Subject) (jwtmw.Token, error)
}

// Observer は認証結果のメトリクスを記録します。nilの場合は記録しません。
type Observer interface {
	ObserveLogin(result string)
	ObserveToken(result string)
}

// RoleClaimType はトークン上でユーザーのロールを表すクレーム名です。
const RoleClaimType = "role"

// ClientInfo はセッションに記録するクライアント情報です。
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// RegisterInput は新規ユーザー登録の入力です。シーダーも同じ経路を使います。
type RegisterInput struct {
	UserName  string   `json:"userName" validate:"required,max=256"`
	Email     string   `json:"email" validate:"required,email,max=256"`
	Password  string   `json:"password" validate:"required,min=6"`
	FirstName string   `json:"firstName" validate:"max=256"`
	LastName  string   `json:"lastName" validate:"max=256"`
	Claims    []jwtmw.Claim
	Roles     []string
}

// Deps は authUsecase の依存関係です。
type Deps struct {
	Users      UserRepository
	Hasher     PasswordHasher
	Issuer     TokenIssuer
	Sessions   SessionRepository
	SessionTTL time.Duration
	Logger     *logger.Logger
	Observer   Observer
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	verifier   *CredentialVerifier
	users      UserRepository
	hasher     PasswordHasher
	issuer     TokenIssuer
	sessions   SessionRepository
	sessionTTL time.Duration
	now        func() time.Time
	log        *logger.Logger
	observer   Observer
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(d Deps) *authUsecase {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.SessionTTL <= 0 {
		d.SessionTTL = 24 * time.Hour
	}
	return &authUsecase{
		verifier:   NewCredentialVerifier(d.Users, d.Hasher, d.Logger),
		users:      d.Users,
		hasher:     d.Hasher,
		issuer:     d.Issuer,
		sessions:   d.Sessions,
		sessionTTL: d.SessionTTL,
		now:        time.Now,
		log:        d.Logger,
		observer:   d.Observer,
	}
}

func (u *authUsecase) observeLogin(result string) {
	if u.observer != nil {
		u.observer.ObserveLogin(result)
	}
}

func (u *authUsecase) observeToken(result string) {
	if u.observer != nil {
		u.observer.ObserveToken(result)
	}
}

// Login は対話的ログイン（Path A）を行い、成功時にサーバー側セッションを作成します。
// 成功以外の結果はすべて ErrSignInFailed でラップして返します。
func (u *authUsecase) Login(ctx context.Context, username, plain string, client ClientInfo) (*entity.Session, error) {
	ctx = u.log.WithField(ctx, "attempted_username", username)

	result, user, err := u.verifier.PasswordSignIn(ctx, username, plain)
	if err != nil {
		u.observeLogin("error")
		return nil, fmt.Errorf("%w: %w", ErrSignInFailed, err)
	}
	if result != SignInSuccess {
		u.observeLogin(result.String())
		u.log.Warn(u.log.WithField(ctx, "result", result.String()), "sign-in rejected")
		return nil, fmt.Errorf("%w: %s", ErrSignInFailed, result)
	}

	now := u.now().UTC()
	session := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.UserName,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		u.observeLogin("error")
		return nil, fmt.Errorf("%w: creating session: %w", ErrSignInFailed, err)
	}

	u.observeLogin(result.String())
	return session, nil
}

// CreateToken はハッシュ比較のみで資格情報を検証し（Path B）、署名済みJWTを発行します。
// 資格情報の不一致は ErrInvalidCredentials、それ以外の失敗は ErrTokenGeneration になります。
func (u *authUsecase) CreateToken(ctx context.Context, username, plain string) (jwtmw.Token, error) {
	user, err := u.verifier.VerifyForToken(ctx, username, plain)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			u.observeToken("invalid_credentials")
			return jwtmw.Token{}, ErrInvalidCredentials
		}
		u.observeToken("error")
		return jwtmw.Token{}, fmt.Errorf("%w: %w", ErrTokenGeneration, err)
	}

	stored, err := u.users.GetClaims(ctx, user.ID)
	if err != nil {
		u.observeToken("error")
		return jwtmw.Token{}, fmt.Errorf("%w: loading claims: %w", ErrTokenGeneration, err)
	}
	roles, err := u.users.GetRoles(ctx, user.ID)
	if err != nil {
		u.observeToken("error")
		return jwtmw.Token{}, fmt.Errorf("%w: loading roles: %w", ErrTokenGeneration, err)
	}
	claims := make([]jwtmw.Claim, 0, len(stored)+len(roles))
	for _, c := range stored {
		claims = append(claims, jwtmw.Claim{Type: c.ClaimType, Value: c.ClaimValue})
	}
	// ロールは "role" クレームとしてトークンに含める
	for _, r := range roles {
		claims = append(claims, jwtmw.Claim{Type: RoleClaimType, Value: r})
	}

	token, err := u.issuer.Issue(jwtmw.Subject{
		Username:   user.UserName,
		GivenName:  user.FirstName,
		FamilyName: user.LastName,
		Email:      user.Email,
		Claims:     claims,
	})
	if err != nil {
		u.observeToken("error")
		return jwtmw.Token{}, fmt.Errorf("%w: %w", ErrTokenGeneration, err)
	}

	u.observeToken("issued")
	return token, nil
}

// Authenticate はセッションIDから有効なセッションを取得します。
func (u *authUsecase) Authenticate(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsRevoked() {
		return nil, ErrSessionRevoked
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Logout はセッションを失効させます。存在しないセッションはエラーにしません。
func (u *authUsecase) Logout(ctx context.Context, sessionID string) error {
	if err := u.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、クレームとロールを付与します。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:                 uuid.NewString(),
		UserName:           in.UserName,
		NormalizedUserName: entity.Normalize(in.UserName),
		Email:              in.Email,
		NormalizedEmail:    entity.Normalize(in.Email),
		EmailConfirmed:     true,
		PasswordHash:       hash,
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		SecurityStamp:      uuid.NewString(),
		ConcurrencyStamp:   uuid.NewString(),
		LockoutEnabled:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if len(in.Claims) > 0 {
		claims := make([]entity.UserClaim, 0, len(in.Claims))
		for _, c := range in.Claims {
			claims = append(claims, entity.UserClaim{UserID: user.ID, ClaimType: c.Type, ClaimValue: c.Value})
		}
		if err := u.users.AddClaims(ctx, user.ID, claims); err != nil {
			return nil, fmt.Errorf("adding claims: %w", err)
		}
	}
	for _, role := range in.Roles {
		if err := u.users.AddToRole(ctx, user.ID, role); err != nil {
			return nil, fmt.Errorf("adding role %q: %w", role, err)
		}
	}
	return user, nil
}
