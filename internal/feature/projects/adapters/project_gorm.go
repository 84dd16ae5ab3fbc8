// Package adapters はprojectsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"gorm.io/gorm"

	"planning_backend/internal/feature/projects/domain/entity"
	"planning_backend/internal/feature/projects/usecase"
	"planning_backend/internal/platform/db"
)

// projectGorm はProjectRepositoryインターフェースのGORM実装です。
type projectGorm struct {
	*db.Repository[entity.Project, *entity.Project]
}

var _ usecase.ProjectRepository = (*projectGorm)(nil)

// NewProjectRepository はプロジェクト削除時に計画も論理削除するリポジトリを生成します。
func NewProjectRepository(conn *gorm.DB, opts ...db.Option) *projectGorm {
	opts = append(append([]db.Option{}, opts...), db.WithCascade(db.CascadeSoftDelete("plannings", "project_id")))
	return &projectGorm{Repository: db.NewRepository[entity.Project, *entity.Project](conn, opts...)}
}
