// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"fmt"
	"strings"

	draftapp "mimo-draft-api/internal/application/draft"
	"mimo-draft-api/internal/domain/entity"
)

// GenerateDraftRequest 草稿生成请求
type GenerateDraftRequest struct {
	Prompt       string   `json:"prompt" binding:"required"`
	SendType     string   `json:"sendType,omitempty"`
	EnabledLangs []string `json:"enabledLangs,omitempty"`
	SlideCount   int      `json:"slideCount,omitempty"`
	AdType       string   `json:"adType,omitempty"`

	Provider    string   `json:"provider,omitempty"`
	Model       string   `json:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// Validate 校验请求参数。allowedLangs 为服务支持的语言码集合。
func (r *GenerateDraftRequest) Validate(allowedLangs []string) error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("prompt is required")
	}

	if r.SendType != "" && !entity.SendType(r.SendType).IsValid() {
		return fmt.Errorf("invalid sendType: %q", r.SendType)
	}

	switch entity.AdType(r.AdType) {
	case "", entity.AdTypeAd, entity.AdTypeNonAd:
	default:
		return fmt.Errorf("invalid adType: %q", r.AdType)
	}

	if r.SlideCount < 0 {
		return fmt.Errorf("slideCount must not be negative")
	}

	if len(r.EnabledLangs) > 0 && len(allowedLangs) > 0 {
		allowed := make(map[string]bool, len(allowedLangs))
		for _, lang := range allowedLangs {
			allowed[lang] = true
		}
		for _, lang := range r.EnabledLangs {
			if !allowed[lang] {
				return fmt.Errorf("unsupported language code: %q", lang)
			}
		}
	}

	return nil
}

// ToGenerateParams 转换为应用层输入
func (r *GenerateDraftRequest) ToGenerateParams(provider, model string) draftapp.GenerateParams {
	adType := entity.AdType(r.AdType)
	if adType != entity.AdTypeAd {
		adType = entity.AdTypeNonAd
	}

	return draftapp.GenerateParams{
		Prompt:       r.Prompt,
		SendType:     entity.SendType(r.SendType),
		EnabledLangs: r.EnabledLangs,
		SlideCount:   r.SlideCount,
		AdType:       adType,
		Provider:     provider,
		Model:        model,
		Temperature:  r.Temperature,
		MaxTokens:    r.MaxTokens,
	}
}

// GenerateDraftResponse 草稿生成响应
type GenerateDraftResponse struct {
	Draft *entity.MessageDraft `json:"draft"`
}
