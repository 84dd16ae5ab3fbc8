// Package handler はemployeesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planning_backend/internal/feature/employees/domain/entity"
	"planning_backend/internal/feature/employees/transport/http/dto"
	"planning_backend/internal/feature/employees/usecase"
	"planning_backend/internal/platform/apperr"
	"planning_backend/internal/platform/http/param"
	"planning_backend/internal/platform/http/response"
	"planning_backend/internal/platform/logger"
)

// EmployeeUsecase は従業員操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type EmployeeUsecase interface {
	List(ctx context.Context) ([]entity.Employee, error)
	Get(ctx context.Context, id uint) (*entity.Employee, error)
	Create(ctx context.Context, e *entity.Employee) (*entity.Employee, error)
	Update(ctx context.Context, id uint, e *entity.Employee) (*entity.Employee, error)
	Delete(ctx context.Context, id uint) error
}

// EmployeeHandler は従業員のHTTPリクエストを処理します。
type EmployeeHandler struct {
	uc  EmployeeUsecase
	log *logger.Logger
}

// NewEmployeeHandler は新しい EmployeeHandler を作成します。
func NewEmployeeHandler(uc EmployeeUsecase, log *logger.Logger) *EmployeeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &EmployeeHandler{uc: uc, log: log}
}

// List は論理削除されていない全従業員を返します。
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.uc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]dto.EmployeeRes, 0, len(employees))
	for _, e := range employees {
		out = append(out, dto.FromEntity(e))
	}
	c.JSON(http.StatusOK, out)
}

// Get は GET /api/employees/:id を処理します。
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, err := param.PathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	e, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*e))
}

// Create は POST /api/employees を処理し、201と作成した従業員を返します。
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.EmployeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Wrap(apperr.CodeValidation, err, "invalid request body"))
		return
	}
	e, err := h.uc.Create(c.Request.Context(), req.ToEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(*e))
}

// Update は PUT /api/employees/:id を処理します。
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := param.PathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req dto.EmployeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Wrap(apperr.CodeValidation, err, "invalid request body"))
		return
	}
	e, err := h.uc.Update(c.Request.Context(), id, req.ToEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*e))
}

// Delete は DELETE /api/employees/:id を処理し、204を返します。
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := param.PathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EmployeeHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrEmployeeNotFound) {
		err = apperr.Wrap(apperr.CodeNotFound, err, "employee not found")
	}
	response.Error(c, h.log, err)
}
