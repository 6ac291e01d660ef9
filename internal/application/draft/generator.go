// Package draft 实现消息草稿生成流水线：类型解析、生成调用、校验修复与兜底规整。
package draft

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"mimo-draft-api/internal/config"
	"mimo-draft-api/internal/domain/entity"
	wfmodel "mimo-draft-api/internal/workflow/model"
	apperrors "mimo-draft-api/pkg/errors"
	"mimo-draft-api/pkg/logger"
	"mimo-draft-api/pkg/metrics"
)

// ChainInvoker 草稿生成链，主生成调用与修复调用各一个入口
type ChainInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.DraftGenerateInput) (*schema.Message, error)
	Repair(ctx context.Context, in *wfmodel.DraftRepairInput) (*schema.Message, error)
}

// ResultCache 草稿结果缓存，nil 表示关闭
type ResultCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
}

// GenerateParams 一次生成请求的全部入参
type GenerateParams struct {
	Prompt       string
	SendType     entity.SendType // 调用方显式指定的类型，空值走推断
	EnabledLangs []string
	SlideCount   int
	AdType       entity.AdType

	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
}

// pipelineState 流水线状态机。
// Generated → Validated 直达，或经 Repairing 绕行；最终必达 Defaulted。
// 修复最多一次由状态迁移保证，不依赖调用约定。
type pipelineState string

const (
	stateGenerated pipelineState = "generated"
	stateValidated pipelineState = "validated"
	stateRepairing pipelineState = "repairing"
	stateDefaulted pipelineState = "defaulted"
)

// Generator 草稿生成服务
type Generator struct {
	chain  ChainInvoker
	cache  ResultCache
	msgCfg *config.MessageConfig
}

// NewGenerator 创建草稿生成服务。cache 可以为 nil。
func NewGenerator(chain ChainInvoker, cache ResultCache, cfg *config.Config) *Generator {
	return &Generator{
		chain:  chain,
		cache:  cache,
		msgCfg: &cfg.Message,
	}
}

// Generate 执行完整生成流水线，返回结构完整的草稿。
// 失败时不返回部分结果，调用方编辑器状态保持不动。
func (g *Generator) Generate(ctx context.Context, p GenerateParams) (*entity.MessageDraft, error) {
	prompt := strings.TrimSpace(p.Prompt)
	if prompt == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "prompt is required")
	}

	langs := p.EnabledLangs
	if len(langs) == 0 {
		base := g.msgCfg.BaseLang
		if base == "" {
			base = "ko"
		}
		langs = []string{base}
	}

	adType := p.AdType
	if adType != entity.AdTypeAd {
		adType = entity.AdTypeNonAd
	}

	res := Resolve(p.SendType, prompt, p.SlideCount)
	anchors := ComputeAnchors(g.msgCfg, time.Now())

	in := &wfmodel.DraftGenerateInput{
		Prompt:       prompt,
		SendType:     res.SendType,
		SlideCount:   res.SlideCount,
		AdType:       adType,
		EnabledLangs: langs,
		Anchors:      anchors,
		Provider:     p.Provider,
		Model:        p.Model,
		Temperature:  p.Temperature,
		MaxTokens:    p.MaxTokens,
	}

	if g.msgCfg.PipelineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.msgCfg.PipelineTimeout)
		defer cancel()
	}

	logger.Info(ctx, "draft generation started",
		"send_type", string(res.SendType),
		"resolve_rule", res.Rule,
		"slide_count", res.SlideCount,
		"ad_type", string(adType),
		"langs", strings.Join(langs, ","),
	)

	start := time.Now()
	d, err := g.generateWithCache(ctx, in, res, langs)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		metrics.DraftGenerationTotal.WithLabelValues(string(res.SendType), "error").Inc()
		metrics.DraftGenerationDuration.WithLabelValues(string(res.SendType)).Observe(elapsed)
		return nil, err
	}

	metrics.DraftGenerationTotal.WithLabelValues(string(res.SendType), "success").Inc()
	metrics.DraftGenerationDuration.WithLabelValues(string(res.SendType)).Observe(elapsed)
	return d, nil
}

// generateWithCache 相同语义参数的请求在 TTL 内复用已生成草稿
func (g *Generator) generateWithCache(ctx context.Context, in *wfmodel.DraftGenerateInput, res Resolution, langs []string) (*entity.MessageDraft, error) {
	if g.cache == nil || g.msgCfg.CacheTTL <= 0 {
		return g.runPipeline(ctx, in, res, langs)
	}

	key := cacheKey(in)
	bytes, err := g.cache.GetOrLoad(ctx, key, g.msgCfg.CacheTTL, func() (interface{}, error) {
		return g.runPipeline(ctx, in, res, langs)
	})
	if err != nil {
		return nil, err
	}

	var d entity.MessageDraft
	if err := json.Unmarshal(bytes, &d); err != nil {
		// 缓存内容损坏时直接重新生成
		logger.Warn(ctx, "cached draft is corrupt, regenerating", "key", key, "error", err.Error())
		return g.runPipeline(ctx, in, res, langs)
	}
	return &d, nil
}

// runPipeline 生成 → 校验 →（至多一次）修复 → 兜底规整
func (g *Generator) runPipeline(ctx context.Context, in *wfmodel.DraftGenerateInput, res Resolution, langs []string) (*entity.MessageDraft, error) {
	state := stateGenerated

	msg, err := g.chain.Invoke(ctx, in)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeLLMCallFailed, "LLM call failed")
	}
	if msg == nil {
		return nil, apperrors.New(apperrors.CodeLLMCallFailed, "empty LLM response")
	}

	// 解析失败是硬错误，不走修复
	d, err := Parse(msg.Content)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDraftParseFailed, "draft response parse failed")
	}

	issues := Validate(d, res, langs)
	if len(issues) == 0 {
		state = stateValidated
		metrics.ValidationTotal.WithLabelValues(string(res.SendType), "valid").Inc()
	} else {
		metrics.ValidationTotal.WithLabelValues(string(res.SendType), "invalid").Inc()
		state = stateRepairing
		logger.Warn(ctx, "draft validation failed, issuing repair call",
			"send_type", string(res.SendType),
			"issue_count", len(issues),
			"issues", strings.Join(issues, "; "),
		)

		repaired, repairedIssues, rerr := g.repairOnce(ctx, in, issues)
		switch {
		case rerr != nil:
			// 修复调用本身失败：保留首次结果，交给兜底补齐
			logger.Warn(ctx, "repair call failed, falling back to backfill", "error", rerr.Error())
			metrics.DraftRepairTotal.WithLabelValues(string(res.SendType), "backfilled").Inc()
		case len(repairedIssues) == 0:
			d = repaired
			state = stateValidated
			metrics.DraftRepairTotal.WithLabelValues(string(res.SendType), "recovered").Inc()
		default:
			// 修复后仍有缺陷：取缺陷更少的一版，剩余交给兜底
			if len(repairedIssues) < len(issues) {
				d = repaired
			}
			metrics.DraftRepairTotal.WithLabelValues(string(res.SendType), "backfilled").Inc()
		}
	}

	d = ApplyDefaults(d, DefaultsInput{
		Resolution:          res,
		AdType:              in.AdType,
		EnabledLangs:        langs,
		Anchors:             in.Anchors,
		SendWindowStartHour: g.msgCfg.SendWindowStartHour,
		SendWindowEndHour:   g.msgCfg.SendWindowEndHour,
	})

	logger.Info(ctx, "draft pipeline finished",
		"send_type", string(res.SendType),
		"state_before_defaulting", string(state),
	)
	return d, nil
}

// repairOnce 发出唯一一次修复调用并重新校验
func (g *Generator) repairOnce(ctx context.Context, in *wfmodel.DraftGenerateInput, issues []string) (*entity.MessageDraft, []string, error) {
	msg, err := g.chain.Repair(ctx, &wfmodel.DraftRepairInput{Base: in, Issues: issues})
	if err != nil {
		return nil, nil, err
	}
	if msg == nil {
		return nil, nil, fmt.Errorf("empty repair response")
	}

	d, err := Parse(msg.Content)
	if err != nil {
		return nil, nil, err
	}

	res := Resolution{SendType: in.SendType, SlideCount: in.SlideCount}
	return d, Validate(d, res, in.EnabledLangs), nil
}

// cacheKey 对请求的全部语义参数取哈希。语言列表排序后参与，顺序不影响命中。
func cacheKey(in *wfmodel.DraftGenerateInput) string {
	langs := append([]string(nil), in.EnabledLangs...)
	sort.Strings(langs)

	h := sha256.New()
	for _, part := range []string{
		strings.TrimSpace(in.Prompt),
		string(in.SendType),
		string(in.AdType),
		strings.Join(langs, ","),
		fmt.Sprintf("%d", in.SlideCount),
		in.Provider,
		in.Model,
		in.Anchors.TodayDate,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}

	return "draft:v1:" + hex.EncodeToString(h.Sum(nil))
}
