// Package usecase は従業員に関するビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"

	"planning_backend/internal/feature/employees/domain/entity"
	"planning_backend/internal/platform/db"
	"planning_backend/internal/shared/validation"
)

// EmployeeRepository は従業員データの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type EmployeeRepository interface {
	GetAll(ctx context.Context) ([]entity.Employee, error)
	GetByID(ctx context.Context, id uint) (*entity.Employee, error)
	Add(ctx context.Context, e *entity.Employee) error
	Update(ctx context.Context, e *entity.Employee) error
	Delete(ctx context.Context, id uint) error
}

// EmployeeUsecase は従業員のCRUD操作を提供します。
type EmployeeUsecase struct {
	repo EmployeeRepository
}

// NewEmployeeUsecase は指定されたリポジトリでEmployeeUsecaseを生成します。
func NewEmployeeUsecase(r EmployeeRepository) *EmployeeUsecase {
	return &EmployeeUsecase{repo: r}
}

func (u *EmployeeUsecase) List(ctx context.Context) ([]entity.Employee, error) {
	return u.repo.GetAll(ctx)
}

func (u *EmployeeUsecase) Get(ctx context.Context, id uint) (*entity.Employee, error) {
	e, err := u.repo.GetByID(ctx, id)
	return e, translate(err)
}

// Create は入力を検証して従業員を登録します。監査項目はリポジトリが設定します。
func (u *EmployeeUsecase) Create(ctx context.Context, e *entity.Employee) (*entity.Employee, error) {
	e.ID = 0
	if err := validation.Struct(e); err != nil {
		return nil, err
	}
	if err := u.repo.Add(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update はidの従業員を入力内容で置き換えます。
func (u *EmployeeUsecase) Update(ctx context.Context, id uint, e *entity.Employee) (*entity.Employee, error) {
	e.ID = id
	if err := validation.Struct(e); err != nil {
		return nil, err
	}
	if err := u.repo.Update(ctx, e); err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// Delete は従業員とその計画を論理削除します。
func (u *EmployeeUsecase) Delete(ctx context.Context, id uint) error {
	return translate(u.repo.Delete(ctx, id))
}

func translate(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	return err
}
