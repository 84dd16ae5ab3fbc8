// Package handler はplanningフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"iter"
	"net/http"

	"github.com/gin-gonic/gin"

	"planning_backend/internal/feature/planning/domain/entity"
	"planning_backend/internal/feature/planning/transport/http/dto"
	"planning_backend/internal/feature/planning/usecase"
	"planning_backend/internal/platform/apperr"
	"planning_backend/internal/platform/http/param"
	"planning_backend/internal/platform/http/response"
	"planning_backend/internal/platform/logger"
)

// PlanningUsecase は計画操作のユースケースインターフェースを定義します。
type PlanningUsecase interface {
	List(ctx context.Context) ([]entity.ProjectPlanning, error)
	Get(ctx context.Context, id uint) (*entity.ProjectPlanning, error)
	Create(ctx context.Context, p *entity.ProjectPlanning) (*entity.ProjectPlanning, error)
	Update(ctx context.Context, id uint, p *entity.ProjectPlanning) (*entity.ProjectPlanning, error)
	Delete(ctx context.Context, id uint) error
	ListByEmployee(ctx context.Context, employeeID uint) iter.Seq2[entity.PlanWithProjectName, error]
}

// PlanHandler は計画のHTTPリクエストを処理します。
type PlanHandler struct {
	uc  PlanningUsecase
	log *logger.Logger
}

func NewPlanHandler(uc PlanningUsecase, log *logger.Logger) *PlanHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PlanHandler{uc: uc, log: log}
}

func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.uc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]dto.PlanRes, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.FromEntity(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *PlanHandler) Get(c *gin.Context) {
	id, err := param.PathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*p))
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.PlanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Wrap(apperr.CodeValidation, err, "invalid request body"))
		return
	}
	p, err := h.uc.Create(c.Request.Context(), req.ToEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(*p))
}

func (h *PlanHandler) Update(c *gin.Context) {
	id, err := param.PathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req dto.PlanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Wrap(apperr.CodeValidation, err, "invalid request body"))
		return
	}
	p, err := h.uc.Update(c.Request.Context(), id, req.ToEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*p))
}

func (h *PlanHandler) Delete(c *gin.Context) {
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

// ListByEmployee は GET /api/employees/:id/plans を処理します。
// 結果はリクエストごとにクエリを実行して取得し、レスポンスを書き込む前にすべて読み切ります。
func (h *PlanHandler) ListByEmployee(c *gin.Context) {
	id, err := param.PathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]dto.PlanWithProjectNameRes, 0)
	for row, err := range h.uc.ListByEmployee(c.Request.Context(), id) {
		if err != nil {
			h.fail(c, err)
			return
		}
		out = append(out, dto.FromPlanWithProjectName(row))
	}
	c.JSON(http.StatusOK, out)
}

func (h *PlanHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrPlanNotFound) {
		err = apperr.Wrap(apperr.CodeNotFound, err, "plan not found")
	}
	response.Error(c, h.log, err)
}
