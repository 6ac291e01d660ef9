package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"mimo-draft-api/internal/domain/entity"
	llmctx "mimo-draft-api/internal/domain/service"
	wfmodel "mimo-draft-api/internal/workflow/model"
	wfnode "mimo-draft-api/internal/workflow/node"
	workflowport "mimo-draft-api/internal/workflow/port"
	workflowprompt "mimo-draft-api/internal/workflow/prompt"
	"mimo-draft-api/pkg/logger"
)

// DraftChain 消息草稿生成链。
// 一次主生成调用走 compose 链；修复调用依赖主调用观察到的缺陷，必须串行，单独走 Repair。
type DraftChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.DraftGenerateInput, *schema.Message]
	chainErr  error
}

func NewDraftChain(factory workflowport.ChatModelFactory) *DraftChain {
	return &DraftChain{factory: factory}
}

// Invoke 执行一次主生成调用
func (c *DraftChain) Invoke(ctx context.Context, in *wfmodel.DraftGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

// Repair 执行一次修复调用：重申已确定的 sendType 与缺陷列表，请求完整替换对象。
// 最多一次，由上层生成器保证。
func (c *DraftChain) Repair(ctx context.Context, in *wfmodel.DraftRepairInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil || in.Base == nil {
		return nil, fmt.Errorf("input is nil")
	}

	ctx = llmctx.WithWorkflowProvider(ctx, "draft_repair", strings.TrimSpace(in.Base.Provider))
	ctx = llmctx.WithSendType(ctx, string(in.Base.SendType))
	chatModel, err := c.factory.Get(ctx, strings.TrimSpace(in.Base.Provider))
	if err != nil {
		return nil, err
	}

	msgs, err := formatRepairMessages(ctx, in)
	if err != nil {
		return nil, err
	}

	outMsg, err := chatModel.Generate(ctx, msgs, buildDraftModelOptions(in.Base, true)...)
	if err != nil && wfnode.IsResponseFormatUnsupportedError(err) {
		logger.Warn(ctx, "llm json_schema not supported for repair, fallback to prompt-only",
			"provider", strings.TrimSpace(in.Base.Provider),
			"model", pickModel(in.Base),
			"error", err.Error(),
		)
		outMsg, err = chatModel.Generate(ctx, msgs, buildDraftModelOptions(in.Base, false)...)
	}
	return outMsg, err
}

type draftChainState struct {
	In       *wfmodel.DraftGenerateInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *DraftChain) getChain() (compose.Runnable[*wfmodel.DraftGenerateInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *DraftChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.DraftGenerateInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.DraftGenerateInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.DraftGenerateInput) (*draftChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			if !in.SendType.IsValid() {
				return nil, fmt.Errorf("send type not resolved: %q", in.SendType)
			}
			return &draftChainState{In: in}, nil
		}),
		compose.WithNodeName("draft.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *draftChainState) (*draftChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := formatDraftMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("draft.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *draftChainState) (*draftChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			if c.factory == nil {
				return nil, fmt.Errorf("llm factory not configured")
			}

			ctx = llmctx.WithWorkflowProvider(ctx, "draft_generate", strings.TrimSpace(st.In.Provider))
			ctx = llmctx.WithSendType(ctx, string(st.In.SendType))
			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildDraftModelOptions(st.In, true)...)
			if err != nil && wfnode.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
					"provider", strings.TrimSpace(st.In.Provider),
					"model", pickModel(st.In),
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, buildDraftModelOptions(st.In, false)...)
			}
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("draft.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *draftChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("draft.finalize"),
	)

	return chain.Compile(ctx)
}

var defaultPromptRegistry = workflowprompt.NewRegistry()

func formatDraftMessages(ctx context.Context, in *wfmodel.DraftGenerateInput) ([]*schema.Message, error) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptDraftGenV1)
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, draftTemplateVars(in, nil))
}

func formatRepairMessages(ctx context.Context, in *wfmodel.DraftRepairInput) ([]*schema.Message, error) {
	tpl, err := defaultPromptRegistry.ChatTemplate(workflowprompt.PromptDraftRepairV1)
	if err != nil {
		return nil, err
	}
	return tpl.Format(ctx, draftTemplateVars(in.Base, in.Issues))
}

func draftTemplateVars(in *wfmodel.DraftGenerateInput, issues []string) map[string]any {
	langs := "ko"
	if len(in.EnabledLangs) > 0 {
		langs = strings.Join(in.EnabledLangs, ", ")
	}

	vars := map[string]any{
		"prompt":        strings.TrimSpace(in.Prompt),
		"send_type":     string(in.SendType),
		"ad_type":       string(in.AdType),
		"langs":         langs,
		"slide_count":   in.SlideCount,
		"today_date":    in.Anchors.TodayDate,
		"tomorrow_date": in.Anchors.TomorrowDate,
		"default_date":  in.Anchors.DefaultDate,
		"default_time":  in.Anchors.DefaultTime,
	}
	if issues != nil {
		var b strings.Builder
		for _, issue := range issues {
			b.WriteString("- ")
			b.WriteString(issue)
			b.WriteString("\n")
		}
		vars["issues_block"] = strings.TrimRight(b.String(), "\n")
	}
	return vars
}

func buildDraftModelOptions(in *wfmodel.DraftGenerateInput, enableSchema bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if in == nil {
		return opts
	}

	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if strings.TrimSpace(in.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(in.Model)))
	}

	if enableSchema {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   "message_draft",
					"strict": false,
					"schema": draftJSONSchema(),
				},
			},
		}))
	}

	return opts
}

func pickModel(in *wfmodel.DraftGenerateInput) string {
	if in == nil {
		return ""
	}
	return strings.TrimSpace(in.Model)
}

func draftJSONSchema() map[string]any {
	// 说明：schema 以“最小可用”为目标，避免过度约束导致模型输出失败。
	// 语言维度是动态键，contents 使用 additionalProperties 表达。
	slideSchema := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"title", "body", "buttonCount"},
		"properties": map[string]any{
			"title":        map[string]any{"type": "string"},
			"body":         map[string]any{"type": "string"},
			"imageName":    map[string]any{"type": "string"},
			"buttonCount":  map[string]any{"type": "integer", "minimum": 0, "maximum": 2},
			"button1Label": map[string]any{"type": "string"},
			"button2Label": map[string]any{"type": "string"},
			"button1Url":   map[string]any{"type": "string"},
			"button2Url":   map[string]any{"type": "string"},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"sendType", "common", "recommendedCheckTypes"},
		"properties": map[string]any{
			"sendType": map[string]any{
				"type": "string",
				"enum": []any{
					string(entity.SendTypeSMS),
					string(entity.SendTypeMMS),
					string(entity.SendTypeRCSSingle),
					string(entity.SendTypeRCSCarousel),
				},
			},
			"common": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"messageName", "adType", "reservationDate", "reservationTime"},
				"properties": map[string]any{
					"messageName":     map[string]any{"type": "string"},
					"adType":          map[string]any{"type": "string", "enum": []any{"광고", "비광고"}},
					"sendPurpose":     map[string]any{"type": "string", "enum": []any{"공지", "이벤트", "알림", "기타"}},
					"callbackType":    map[string]any{"type": "string", "enum": []any{"대표번호", "080", "개인번호"}},
					"enabledLangs":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"reservationDate": map[string]any{"type": "string"},
					"reservationTime": map[string]any{"type": "string"},
					"myktLink":        map[string]any{"type": "string", "enum": []any{"포함", "미포함"}},
					"closingRemark":   map[string]any{"type": "string", "enum": []any{"포함", "미포함"}},
					"imagePosition":   map[string]any{"type": "string", "enum": []any{"위", "아래"}},
				},
			},
			"sms": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"contents": map[string]any{
						"type": "object",
						"additionalProperties": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"required":             []any{"body"},
							"properties": map[string]any{
								"body": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
			"rcs": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"slideCount": map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
					"contents": map[string]any{
						"type": "object",
						"additionalProperties": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"required":             []any{"slides"},
							"properties": map[string]any{
								"slides": map[string]any{"type": "array", "items": slideSchema},
							},
						},
					},
				},
			},
			"mms": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"contents": map[string]any{
						"type": "object",
						"additionalProperties": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"required":             []any{"title", "body"},
							"properties": map[string]any{
								"title":     map[string]any{"type": "string"},
								"body":      map[string]any{"type": "string"},
								"imageName": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
			"recommendedCheckTypes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
					"enum": []any{"법률", "정보보호", "리스크", "공정경쟁"},
				},
			},
		},
	}
}
