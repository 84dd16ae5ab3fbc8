// Package usecase はプロジェクトに関するビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"

	"planning_backend/internal/feature/projects/domain/entity"
	"planning_backend/internal/platform/db"
	"planning_backend/internal/shared/validation"
)

// ProjectRepository はプロジェクトデータの永続化層を抽象化します。
type ProjectRepository interface {
	GetAll(ctx context.Context) ([]entity.Project, error)
	GetByID(ctx context.Context, id uint) (*entity.Project, error)
	Add(ctx context.Context, p *entity.Project) error
	Update(ctx context.Context, p *entity.Project) error
	Delete(ctx context.Context, id uint) error
}

// ProjectUsecase はプロジェクトのCRUD操作を提供します。
type ProjectUsecase struct {
	repo ProjectRepository
}

func NewProjectUsecase(r ProjectRepository) *ProjectUsecase {
	return &ProjectUsecase{repo: r}
}

func (u *ProjectUsecase) List(ctx context.Context) ([]entity.Project, error) {
	return u.repo.GetAll(ctx)
}

func (u *ProjectUsecase) Get(ctx context.Context, id uint) (*entity.Project, error) {
	p, err := u.repo.GetByID(ctx, id)
	return p, translate(err)
}

// Create は終了日が開始日より前でないことを含めて検証し、登録します。
func (u *ProjectUsecase) Create(ctx context.Context, p *entity.Project) (*entity.Project, error) {
	p.ID = 0
	normalizeDates(p)
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	if err := u.repo.Add(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *ProjectUsecase) Update(ctx context.Context, id uint, p *entity.Project) (*entity.Project, error) {
	p.ID = id
	normalizeDates(p)
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	if err := u.repo.Update(ctx, p); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// Delete はプロジェクトとその計画を論理削除します。
func (u *ProjectUsecase) Delete(ctx context.Context, id uint) error {
	return translate(u.repo.Delete(ctx, id))
}

func normalizeDates(p *entity.Project) {
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
}

func translate(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrProjectNotFound
	}
	return err
}
