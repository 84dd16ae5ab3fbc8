// Package entity はplanningフィーチャーのドメインモデルを定義します。
package entity

import (
	"time"

	"github.com/shopspring/decimal"

	employee "planning_backend/internal/feature/employees/domain/entity"
	project "planning_backend/internal/feature/projects/domain/entity"
	"planning_backend/internal/shared/audit"
)

// ProjectPlanning は従業員1名・プロジェクト1件・年度1つ分の四半期ごとの配員値です。
// (EmployeeID, ProjectID, Year) の一意性はDBでは強制しません。
type ProjectPlanning struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	EmployeeID uint            `gorm:"not null;index" json:"employeeId" validate:"required"`
	ProjectID  uint            `gorm:"not null;index" json:"projectId" validate:"required"`
	Year       int             `gorm:"not null" json:"year" validate:"gte=1900,lte=9999"`
	Q1         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"q1" validate:"gte=0,intdigits=16"`
	Q2         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"q2" validate:"gte=0,intdigits=16"`
	Q3         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"q3" validate:"gte=0,intdigits=16"`
	Q4         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"q4" validate:"gte=0,intdigits=16"`
	audit.Fields

	// 外部キー制約（ON DELETE CASCADE）のためのリレーション。読み込みはしません。
	Employee *employee.Employee `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Project  *project.Project   `gorm:"constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}

// TableName はGORMのテーブル名を返します。
func (ProjectPlanning) TableName() string { return "plannings" }

// GetID は主キーを返します。
func (p *ProjectPlanning) GetID() uint { return p.ID }

// PlanWithProjectName は計画とプロジェクト名を結合したフラットな読み取りモデルです。
type PlanWithProjectName struct {
	ID           uint
	EmployeeID   uint
	ProjectID    uint
	ProjectName  string
	Year         int
	Q1           decimal.Decimal
	Q2           decimal.Decimal
	Q3           decimal.Decimal
	Q4           decimal.Decimal
	CreatedBy    string
	DateCreated  time.Time
	ModifiedBy   *string
	DateModified *time.Time
}
