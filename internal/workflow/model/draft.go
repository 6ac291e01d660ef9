package model

import (
	"mimo-draft-api/internal/domain/entity"
)

// DateAnchors 服务端计算的日期锚点（固定时区），注入提示词供模型原样引用。
// 不信任模型自行推算“今天/明天”。
type DateAnchors struct {
	TodayDate    string // YYYY-MM-DD
	TomorrowDate string // YYYY-MM-DD
	DefaultDate  string // 兜底预约日（如 +14 天）
	DefaultTime  string // 兜底预约时间 HH:MM
}

// DraftGenerateInput 草稿生成链的输入
// SendType 在进入链之前已由类型解析器定死，链内不再变更。
type DraftGenerateInput struct {
	Prompt       string
	SendType     entity.SendType
	SlideCount   int
	AdType       entity.AdType
	EnabledLangs []string
	Anchors      DateAnchors

	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
}

// DraftRepairInput 修复调用的输入：原始请求上下文 + 观察到的结构缺陷
type DraftRepairInput struct {
	Base   *DraftGenerateInput
	Issues []string
}
