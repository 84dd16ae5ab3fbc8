// Package dto はemployees HTTP APIのデータ転送オブジェクトを定義します。
package dto

import (
	"planning_backend/internal/feature/employees/domain/entity"
	"planning_backend/internal/shared/audit"
)

// EmployeeReq は従業員の作成・更新リクエストです。
type EmployeeReq struct {
	Title     string `json:"title"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (r EmployeeReq) ToEntity() *entity.Employee {
	return &entity.Employee{
		Title:     r.Title,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}

// EmployeeRes は従業員のレスポンスです。
type EmployeeRes struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	audit.View
}

func FromEntity(e entity.Employee) EmployeeRes {
	return EmployeeRes{
		ID:        e.ID,
		Title:     e.Title,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		View:      e.Fields.View(),
	}
}
