// Package adapters はplanningフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"iter"

	"gorm.io/gorm"

	"planning_backend/internal/feature/planning/domain/entity"
	"planning_backend/internal/feature/planning/usecase"
	"planning_backend/internal/platform/db"
)

// planningGorm はPlanningRepositoryインターフェースのGORM実装です。
type planningGorm struct {
	*db.Repository[entity.ProjectPlanning, *entity.ProjectPlanning]
}

var _ usecase.PlanningRepository = (*planningGorm)(nil)

// NewPlanningRepository は指定されたDB接続でplanningGormの新しいインスタンスを生成します。
func NewPlanningRepository(conn *gorm.DB, opts ...db.Option) *planningGorm {
	return &planningGorm{Repository: db.NewRepository[entity.ProjectPlanning, *entity.ProjectPlanning](conn, opts...)}
}

// GetByEmployee は従業員の有効な計画を年度順に返します。
func (r *planningGorm) GetByEmployee(ctx context.Context, employeeID uint) ([]entity.ProjectPlanning, error) {
	var plans []entity.ProjectPlanning
	if err := r.DB().WithContext(ctx).
		Where("employee_id = ? AND deleted = ?", employeeID, false).
		Order("year ASC, id ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

const plansWithProjectNameColumns = "p.id, p.employee_id, p.project_id, pr.project_name, p.year, " +
	"p.q1, p.q2, p.q3, p.q4, p.created_by, p.date_created, p.modified_by, p.date_modified"

// GetEmployeePlansWithProjectName は計画とプロジェクトを内部結合した行を遅延評価で返します。
// rangeのたびにクエリを再実行します。結果はキャッシュしません。
// sqliteは接続が1本のため、反復中に同じDBへ別のクエリを発行しないでください。
func (r *planningGorm) GetEmployeePlansWithProjectName(ctx context.Context, employeeID uint) iter.Seq2[entity.PlanWithProjectName, error] {
	return func(yield func(entity.PlanWithProjectName, error) bool) {
		conn := r.DB().WithContext(ctx)
		rows, err := conn.
			Table("plannings AS p").
			Select(plansWithProjectNameColumns).
			Joins("INNER JOIN projects AS pr ON pr.id = p.project_id").
			Where("p.employee_id = ? AND p.deleted = ? AND pr.deleted = ?", employeeID, false, false).
			Order("p.year ASC, p.id ASC").
			Rows()
		if err != nil {
			yield(entity.PlanWithProjectName{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row entity.PlanWithProjectName
			if err := conn.ScanRows(rows, &row); err != nil {
				yield(entity.PlanWithProjectName{}, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(entity.PlanWithProjectName{}, err)
		}
	}
}
