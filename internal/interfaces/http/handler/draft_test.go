package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	draftapp "mimo-draft-api/internal/application/draft"
	"mimo-draft-api/internal/config"
	"mimo-draft-api/internal/domain/entity"
	apperrors "mimo-draft-api/pkg/errors"
)

type stubGenerator struct {
	draft  *entity.MessageDraft
	err    error
	params draftapp.GenerateParams
	calls  int
}

func (s *stubGenerator) Generate(_ context.Context, p draftapp.GenerateParams) (*entity.MessageDraft, error) {
	s.calls++
	s.params = p
	if s.err != nil {
		return nil, s.err
	}
	return s.draft, nil
}

func draftTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM = config.LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]config.ProviderConfig{
			"openai": {Model: "gpt-4o-mini"},
		},
	}
	cfg.Message.Languages = []string{"ko", "en", "zh", "vi", "ru"}
	return cfg
}

func postDraft(t *testing.T, h *DraftHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/drafts/generate", h.GenerateDraft)

	req := httptest.NewRequest(http.MethodPost, "/v1/drafts/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateDraft_Success(t *testing.T) {
	stub := &stubGenerator{
		draft: &entity.MessageDraft{
			SendType: entity.SendTypeMMS,
			MMS:      &entity.MMSSection{Contents: map[string]entity.MMSBody{"ko": {Title: "제목", Body: "본문", ImageName: "promo.jpg"}}},
		},
	}
	h := NewDraftHandler(draftTestConfig(), stub)

	w := postDraft(t, h, `{"prompt":"요금제 변경 안내","enabledLangs":["ko"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, stub.calls)

	// 默认 provider/model 来自配置
	assert.Equal(t, "openai", stub.params.Provider)
	assert.Equal(t, "gpt-4o-mini", stub.params.Model)
	assert.Equal(t, entity.AdTypeNonAd, stub.params.AdType)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Draft *entity.MessageDraft `json:"draft"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Code)
	require.NotNil(t, resp.Data.Draft)
	assert.Equal(t, entity.SendTypeMMS, resp.Data.Draft.SendType)
}

func TestGenerateDraft_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing prompt", `{}`},
		{"blank prompt", `{"prompt":"   "}`},
		{"invalid json", `{prompt}`},
		{"invalid sendType", `{"prompt":"안내","sendType":"LMS"}`},
		{"invalid adType", `{"prompt":"안내","adType":"광고성"}`},
		{"unsupported language", `{"prompt":"안내","enabledLangs":["ja"]}`},
		{"negative slideCount", `{"prompt":"안내","slideCount":-1}`},
		{"unknown provider", `{"prompt":"안내","provider":"claude"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubGenerator{}
			h := NewDraftHandler(draftTestConfig(), stub)
			w := postDraft(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 0, stub.calls)
		})
	}
}

func TestGenerateDraft_GeneratorError(t *testing.T) {
	stub := &stubGenerator{err: apperrors.New(apperrors.CodeLLMCallFailed, "LLM call failed")}
	h := NewDraftHandler(draftTestConfig(), stub)

	w := postDraft(t, h, `{"prompt":"요금제 변경 안내"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Error struct {
			ErrorCode string `json:"error_code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(apperrors.CodeLLMCallFailed), resp.Error.ErrorCode)
}

func TestGenerateDraft_ExplicitOverrides(t *testing.T) {
	stub := &stubGenerator{draft: &entity.MessageDraft{SendType: entity.SendTypeRCSCarousel}}
	h := NewDraftHandler(draftTestConfig(), stub)

	w := postDraft(t, h, `{"prompt":"혜택 소개","sendType":"RCS_CAROUSEL","slideCount":4,"adType":"광고","model":"gpt-4o"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.SendTypeRCSCarousel, stub.params.SendType)
	assert.Equal(t, 4, stub.params.SlideCount)
	assert.Equal(t, entity.AdTypeAd, stub.params.AdType)
	assert.Equal(t, "gpt-4o", stub.params.Model)
}
