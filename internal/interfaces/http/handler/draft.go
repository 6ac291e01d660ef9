// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	draftapp "mimo-draft-api/internal/application/draft"
	"mimo-draft-api/internal/config"
	"mimo-draft-api/internal/domain/entity"
	"mimo-draft-api/internal/interfaces/http/dto"
	"mimo-draft-api/pkg/logger"
)

// DraftGenerator 草稿生成服务入口
type DraftGenerator interface {
	Generate(ctx context.Context, p draftapp.GenerateParams) (*entity.MessageDraft, error)
}

// DraftHandler 消息草稿生成
type DraftHandler struct {
	cfg       *config.Config
	generator DraftGenerator
}

// NewDraftHandler 创建草稿生成处理器
func NewDraftHandler(cfg *config.Config, generator DraftGenerator) *DraftHandler {
	return &DraftHandler{
		cfg:       cfg,
		generator: generator,
	}
}

// GenerateDraft 同步生成消息草稿
// @Summary 生成消息草稿
// @Description 根据自然语言描述生成结构完整的 SMS/MMS/RCS 消息草稿
// @Tags Draft
// @Accept json
// @Produce json
// @Param body body dto.GenerateDraftRequest true "生成请求"
// @Success 200 {object} dto.Response[dto.GenerateDraftResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/drafts/generate [post]
func (h *DraftHandler) GenerateDraft(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(h.cfg.Message.Languages); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	provider, model, err := resolveProviderModel(h.cfg, req.Provider, req.Model)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	draft, err := h.generator.Generate(ctx, req.ToGenerateParams(provider, model))
	if err != nil {
		logger.Error(ctx, "draft generation failed", err)
		dto.AppError(c, err)
		return
	}

	dto.Success(c, &dto.GenerateDraftResponse{Draft: draft})
}
