package usecase

import (
	"context"
	"errors"
	"time"

	"planning_backend/internal/feature/auth/domain/entity"
	"planning_backend/internal/platform/logger"
	"planning_backend/internal/platform/password"
)

// PasswordHasher は平文パスワードのハッシュ化と検証を抽象化します。
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) password.Result
	// VerifyDummy は存在しないユーザーに対しても同等の計算コストを消費します。
	VerifyDummy(plain string)
}

// SignInResult は対話的ログイン（Path A）の結果です。
type SignInResult int

const (
	SignInFailed SignInResult = iota
	SignInSuccess
	SignInLockedOut
	SignInRequiresTwoFactor
)

func (r SignInResult) String() string {
	switch r {
	case SignInSuccess:
		return "success"
	case SignInLockedOut:
		return "locked_out"
	case SignInRequiresTwoFactor:
		return "requires_two_factor"
	default:
		return "failed"
	}
}

// CredentialVerifier はユーザー名とパスワードの検証を行います。
// 対話的ログイン用の PasswordSignIn とトークン発行用の VerifyForToken は意図的に別々の経路です。
// VerifyForToken はロックアウトと二要素認証を確認しません。
type CredentialVerifier struct {
	users  UserRepository
	hasher PasswordHasher
	now    func() time.Time
	log    *logger.Logger
}

// NewCredentialVerifier はCredentialVerifierの新しいインスタンスを生成します。
func NewCredentialVerifier(users UserRepository, hasher PasswordHasher, log *logger.Logger) *CredentialVerifier {
	if log == nil {
		log = logger.Nop()
	}
	return &CredentialVerifier{users: users, hasher: hasher, now: time.Now, log: log}
}

// PasswordSignIn は対話的ログイン（Path A）です。
// ロックアウトはパスワード検証より先に判定します。失敗回数はカウントしません。
// 旧形式のハッシュで一致した場合は現行形式に更新します（失敗してもログインは継続）。
// 成功時のみユーザーを返します。
func (v *CredentialVerifier) PasswordSignIn(ctx context.Context, username, plain string) (SignInResult, *entity.User, error) {
	user, err := v.users.FindByName(ctx, entity.Normalize(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// タイミング攻撃防止のため、ユーザーが存在しない場合もハッシュ検証を実行
			v.hasher.VerifyDummy(plain)
			return SignInFailed, nil, nil
		}
		return SignInFailed, nil, err
	}

	if user.IsLockedOut(v.now()) {
		return SignInLockedOut, nil, nil
	}

	result := v.hasher.Verify(user.PasswordHash, plain)
	if !result.Ok() {
		return SignInFailed, nil, nil
	}
	if result == password.SuccessRehashNeeded {
		v.rehash(ctx, user, plain)
	}

	if user.TwoFactorEnabled {
		return SignInRequiresTwoFactor, nil, nil
	}
	return SignInSuccess, user, nil
}

func (v *CredentialVerifier) rehash(ctx context.Context, user *entity.User, plain string) {
	hash, err := v.hasher.Hash(plain)
	if err == nil {
		err = v.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		v.log.Error(v.log.WithField(ctx, "user_id", user.ID), "password rehash failed", err)
		return
	}
	user.PasswordHash = hash
}

// VerifyForToken はトークン発行用の検証（Path B）です。ハッシュ比較のみを行います。
// ユーザー未検出とパスワード不一致はどちらも ErrInvalidCredentials になります。
func (v *CredentialVerifier) VerifyForToken(ctx context.Context, username, plain string) (*entity.User, error) {
	user, err := v.users.FindByName(ctx, entity.Normalize(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			v.hasher.VerifyDummy(plain)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	// 旧形式(bcrypt)のハッシュもここでは成功扱いにする。再ハッシュはPath Aのみが行う
	if !v.hasher.Verify(user.PasswordHash, plain).Ok() {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
