// Package handler はprojectsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planning_backend/internal/feature/projects/domain/entity"
	"planning_backend/internal/feature/projects/transport/http/dto"
	"planning_backend/internal/feature/projects/usecase"
	"planning_backend/internal/platform/apperr"
	"planning_backend/internal/platform/http/param"
	"planning_backend/internal/platform/http/response"
	"planning_backend/internal/platform/logger"
)

// ProjectUsecase はプロジェクト操作のユースケースインターフェースを定義します。
type ProjectUsecase interface {
	List(ctx context.Context) ([]entity.Project, error)
	Get(ctx context.Context, id uint) (*entity.Project, error)
	Create(ctx context.Context, p *entity.Project) (*entity.Project, error)
	Update(ctx context.Context, id uint, p *entity.Project) (*entity.Project, error)
	Delete(ctx context.Context, id uint) error
}

// ProjectHandler はプロジェクトのHTTPリクエストを処理します。
type ProjectHandler struct {
	uc  ProjectUsecase
	log *logger.Logger
}

func NewProjectHandler(uc ProjectUsecase, log *logger.Logger) *ProjectHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ProjectHandler{uc: uc, log: log}
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.uc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]dto.ProjectRes, 0, len(projects))
	for _, p := range projects {
		out = append(out, dto.FromEntity(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProjectHandler) Get(c *gin.Context) {
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

func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.ProjectReq
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

func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := param.PathID(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req dto.ProjectReq
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

func (h *ProjectHandler) Delete(c *gin.Context) {
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

func (h *ProjectHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrProjectNotFound) {
		err = apperr.Wrap(apperr.CodeNotFound, err, "project not found")
	}
	response.Error(c, h.log, err)
}
