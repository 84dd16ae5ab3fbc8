// Package entity はprojectsフィーチャーのドメインモデルを定義します。
package entity

import (
	"time"

	"planning_backend/internal/shared/audit"
)

// Project は従業員が配員されるプロジェクトです。
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectName string    `gorm:"size:255;not null" json:"projectName" validate:"required,max=255"`
	StartDate   time.Time `gorm:"not null" json:"startDate" validate:"required"`
	EndDate     time.Time `gorm:"not null" json:"endDate" validate:"required,gtefield=StartDate"`
	audit.Fields
}

// TableName はGORMのテーブル名を返します。
func (Project) TableName() string { return "projects" }

// GetID は主キーを返します。
func (p *Project) GetID() uint { return p.ID }
