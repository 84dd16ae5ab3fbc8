// Package entity はemployeesフィーチャーのドメインモデルを定義します。
package entity

import "planning_backend/internal/shared/audit"

// Employee は配員計画の対象となる従業員です。
// 計画（plannings）は employee_id で参照し、従業員の削除時にカスケードします。
type Employee struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	FirstName string `gorm:"size:255;not null" json:"firstName" validate:"required,max=255"`
	LastName  string `gorm:"size:255;not null" json:"lastName" validate:"required,max=255"`
	Email     string `gorm:"size:255;not null" json:"email" validate:"required,email,max=255"`
	audit.Fields
}

// TableName はGORMのテーブル名を返します。
func (Employee) TableName() string { return "employees" }

// GetID は主キーを返します。
func (e *Employee) GetID() uint { return e.ID }
