// Package dto はplanning HTTP APIのデータ転送オブジェクトを定義します。
package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"planning_backend/internal/feature/planning/domain/entity"
	"planning_backend/internal/shared/audit"
)

// PlanReq は計画の作成・更新リクエストです。四半期の値は数値または数値文字列を受け付けます。
type PlanReq struct {
	EmployeeID uint            `json:"employeeId"`
	ProjectID  uint            `json:"projectId"`
	Year       int             `json:"year"`
	Q1         decimal.Decimal `json:"q1"`
	Q2         decimal.Decimal `json:"q2"`
	Q3         decimal.Decimal `json:"q3"`
	Q4         decimal.Decimal `json:"q4"`
}

func (r PlanReq) ToEntity() *entity.ProjectPlanning {
	return &entity.ProjectPlanning{
		EmployeeID: r.EmployeeID,
		ProjectID:  r.ProjectID,
		Year:       r.Year,
		Q1:         r.Q1,
		Q2:         r.Q2,
		Q3:         r.Q3,
		Q4:         r.Q4,
	}
}

// PlanRes は計画のレスポンスです。四半期の値は小数点以下2桁のJSON数値で返します。
type PlanRes struct {
	ID         uint        `json:"id"`
	EmployeeID uint        `json:"employeeId"`
	ProjectID  uint        `json:"projectId"`
	Year       int         `json:"year"`
	Q1         json.Number `json:"q1"`
	Q2         json.Number `json:"q2"`
	Q3         json.Number `json:"q3"`
	Q4         json.Number `json:"q4"`
	audit.View
}

func FromEntity(p entity.ProjectPlanning) PlanRes {
	return PlanRes{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		ProjectID:  p.ProjectID,
		Year:       p.Year,
		Q1:         number(p.Q1),
		Q2:         number(p.Q2),
		Q3:         number(p.Q3),
		Q4:         number(p.Q4),
		View:       p.Fields.View(),
	}
}

// PlanWithProjectNameRes は GET /api/employees/:id/plans の要素です。
type PlanWithProjectNameRes struct {
	ID           uint        `json:"id"`
	EmployeeID   uint        `json:"employeeId"`
	ProjectID    uint        `json:"projectId"`
	ProjectName  string      `json:"projectName"`
	Year         int         `json:"year"`
	Q1           json.Number `json:"q1"`
	Q2           json.Number `json:"q2"`
	Q3           json.Number `json:"q3"`
	Q4           json.Number `json:"q4"`
	CreatedBy    string      `json:"createdBy"`
	DateCreated  time.Time   `json:"dateCreated"`
	ModifiedBy   *string     `json:"modifiedBy"`
	DateModified *time.Time  `json:"dateModified"`
}

func FromPlanWithProjectName(p entity.PlanWithProjectName) PlanWithProjectNameRes {
	return PlanWithProjectNameRes{
		ID:           p.ID,
		EmployeeID:   p.EmployeeID,
		ProjectID:    p.ProjectID,
		ProjectName:  p.ProjectName,
		Year:         p.Year,
		Q1:           number(p.Q1),
		Q2:           number(p.Q2),
		Q3:           number(p.Q3),
		Q4:           number(p.Q4),
		CreatedBy:    p.CreatedBy,
		DateCreated:  p.DateCreated,
		ModifiedBy:   p.ModifiedBy,
		DateModified: p.DateModified,
	}
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
