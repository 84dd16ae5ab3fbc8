// Package usecase は配員計画に関するビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"

	employee "planning_backend/internal/feature/employees/domain/entity"
	"planning_backend/internal/feature/planning/domain/entity"
	project "planning_backend/internal/feature/projects/domain/entity"
	"planning_backend/internal/platform/apperr"
	"planning_backend/internal/platform/db"
	"planning_backend/internal/shared/validation"
)

// PlanningRepository は計画データの永続化層を抽象化します。
type PlanningRepository interface {
	GetAll(ctx context.Context) ([]entity.ProjectPlanning, error)
	GetByID(ctx context.Context, id uint) (*entity.ProjectPlanning, error)
	Add(ctx context.Context, p *entity.ProjectPlanning) error
	Update(ctx context.Context, p *entity.ProjectPlanning) error
	Delete(ctx context.Context, id uint) error
	GetByEmployee(ctx context.Context, employeeID uint) ([]entity.ProjectPlanning, error)
	GetEmployeePlansWithProjectName(ctx context.Context, employeeID uint) iter.Seq2[entity.PlanWithProjectName, error]
}

// EmployeeLookup は計画が参照する従業員の存在確認に使います。
type EmployeeLookup interface {
	GetByID(ctx context.Context, id uint) (*employee.Employee, error)
}

// ProjectLookup は計画が参照するプロジェクトの存在確認に使います。
type ProjectLookup interface {
	GetByID(ctx context.Context, id uint) (*project.Project, error)
}

// PlanningUsecase は計画のCRUDと従業員別の一覧を提供します。
type PlanningUsecase struct {
	plans     PlanningRepository
	employees EmployeeLookup
	projects  ProjectLookup
}

func NewPlanningUsecase(plans PlanningRepository, employees EmployeeLookup, projects ProjectLookup) *PlanningUsecase {
	return &PlanningUsecase{plans: plans, employees: employees, projects: projects}
}

func (u *PlanningUsecase) List(ctx context.Context) ([]entity.ProjectPlanning, error) {
	return u.plans.GetAll(ctx)
}

func (u *PlanningUsecase) Get(ctx context.Context, id uint) (*entity.ProjectPlanning, error) {
	p, err := u.plans.GetByID(ctx, id)
	return p, translate(err)
}

// Create は入力を検証し、参照先の従業員とプロジェクトが有効であることを確認してから登録します。
func (u *PlanningUsecase) Create(ctx context.Context, p *entity.ProjectPlanning) (*entity.ProjectPlanning, error) {
	p.ID = 0
	if err := u.check(ctx, p); err != nil {
		return nil, err
	}
	if err := u.plans.Add(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *PlanningUsecase) Update(ctx context.Context, id uint, p *entity.ProjectPlanning) (*entity.ProjectPlanning, error) {
	p.ID = id
	if err := u.check(ctx, p); err != nil {
		return nil, err
	}
	if err := u.plans.Update(ctx, p); err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (u *PlanningUsecase) Delete(ctx context.Context, id uint) error {
	return translate(u.plans.Delete(ctx, id))
}

// ListByEmployee は従業員の計画をプロジェクト名付きで返します。計画がない場合は空のシーケンスです。
func (u *PlanningUsecase) ListByEmployee(ctx context.Context, employeeID uint) iter.Seq2[entity.PlanWithProjectName, error] {
	return u.plans.GetEmployeePlansWithProjectName(ctx, employeeID)
}

func (u *PlanningUsecase) check(ctx context.Context, p *entity.ProjectPlanning) error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	missing := map[string]string{}
	if _, err := u.employees.GetByID(ctx, p.EmployeeID); err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("looking up employee %d: %w", p.EmployeeID, err)
		}
		missing["employeeId"] = "does not exist"
	}
	if _, err := u.projects.GetByID(ctx, p.ProjectID); err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("looking up project %d: %w", p.ProjectID, err)
		}
		missing["projectId"] = "does not exist"
	}
	if len(missing) > 0 {
		return apperr.New(apperr.CodeValidation, "validation failed").WithDetails(missing)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}
