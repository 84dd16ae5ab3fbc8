// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"planning_backend/internal/feature/auth/domain/entity"
	"planning_backend/internal/feature/auth/usecase"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
// ユーザー、クレーム、ロールの各テーブルを扱います。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Models はauthフィーチャーが所有するテーブルのモデル一覧です（AutoMigrate用）。
func Models() []any {
	return []any{
		&entity.User{},
		&entity.UserClaim{},
		&entity.Role{},
		&entity.UserRole{},
		&entity.UserLogin{},
		&entity.Session{},
	}
}

// Create はユーザーをデータベースに追加します。
// 正規化ユーザー名が重複する場合、usecase.ErrUserAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByName は正規化ユーザー名でユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByName(ctx context.Context, normalizedName string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("normalized_user_name = ?", normalizedName).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetClaims はユーザーに紐づくクレームを登録順に取得します。
func (r *userGorm) GetClaims(ctx context.Context, userID string) ([]entity.UserClaim, error) {
	var claims []entity.UserClaim
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

// AddClaims はクレームを追加します。
func (r *userGorm) AddClaims(ctx context.Context, userID string, claims []entity.UserClaim) error {
	if len(claims) == 0 {
		return nil
	}
	for i := range claims {
		claims[i].UserID = userID
	}
	return r.db.WithContext(ctx).Create(&claims).Error
}

// UpdatePasswordHash はパスワードハッシュを置き換え、セキュリティスタンプを更新します。
func (r *userGorm) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_hash":     hash,
			"security_stamp":    uuid.NewString(),
			"concurrency_stamp": uuid.NewString(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// AddToRole はユーザーをロールに追加します。ロールが存在しない場合は作成します。
func (r *userGorm) AddToRole(ctx context.Context, userID, roleName string) error {
	normalized := entity.Normalize(roleName)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role entity.Role
		if err := tx.Where(entity.Role{NormalizedName: normalized}).
			Attrs(entity.Role{ID: uuid.NewString(), Name: roleName, ConcurrencyStamp: uuid.NewString()}).
			FirstOrCreate(&role).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entity.UserRole{UserID: userID, RoleID: role.ID}).Error
	})
}

// GetRoles はユーザーが所属するロール名を取得します。
func (r *userGorm) GetRoles(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
