// Package dto はprojects HTTP APIのデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"planning_backend/internal/feature/projects/domain/entity"
	"planning_backend/internal/shared/audit"
)

// ProjectReq はプロジェクトの作成・更新リクエストです。日付はRFC 3339形式です。
type ProjectReq struct {
	ProjectName string    `json:"projectName"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

func (r ProjectReq) ToEntity() *entity.Project {
	return &entity.Project{
		ProjectName: r.ProjectName,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// ProjectRes はプロジェクトのレスポンスです。
type ProjectRes struct {
	ID          uint      `json:"id"`
	ProjectName string    `json:"projectName"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	audit.View
}

func FromEntity(p entity.Project) ProjectRes {
	return ProjectRes{
		ID:          p.ID,
		ProjectName: p.ProjectName,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		View:        p.Fields.View(),
	}
}
