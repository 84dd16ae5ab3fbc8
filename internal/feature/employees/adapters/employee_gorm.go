// Package adapters はemployeesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"gorm.io/gorm"

	"planning_backend/internal/feature/employees/domain/entity"
	"planning_backend/internal/feature/employees/usecase"
	"planning_backend/internal/platform/db"
)

// employeeGorm はEmployeeRepositoryインターフェースのGORM実装です。
// CRUDは汎用リポジトリに委譲し、削除時は従業員の計画も論理削除します。
type employeeGorm struct {
	*db.Repository[entity.Employee, *entity.Employee]
}

var _ usecase.EmployeeRepository = (*employeeGorm)(nil)

// NewEmployeeRepository は指定されたDB接続でemployeeGormの新しいインスタンスを生成します。
func NewEmployeeRepository(conn *gorm.DB, opts ...db.Option) *employeeGorm {
	opts = append(append([]db.Option{}, opts...), db.WithCascade(db.CascadeSoftDelete("plannings", "employee_id")))
	return &employeeGorm{Repository: db.NewRepository[entity.Employee, *entity.Employee](conn, opts...)}
}
