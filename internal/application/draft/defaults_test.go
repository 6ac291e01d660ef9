package draft

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mimo-draft-api/internal/domain/entity"
	wfmodel "mimo-draft-api/internal/workflow/model"
)

func testAnchors() wfmodel.DateAnchors {
	return wfmodel.DateAnchors{
		TodayDate:    "2026-08-30",
		TomorrowDate: "2026-08-31",
		DefaultDate:  "2026-09-13",
		DefaultTime:  "10:00",
	}
}

func defaultsInput(sendType entity.SendType, adType entity.AdType, langs ...string) DefaultsInput {
	return DefaultsInput{
		Resolution:   Resolution{SendType: sendType, SlideCount: 3},
		AdType:       adType,
		EnabledLangs: langs,
		Anchors:      testAnchors(),
	}
}

func TestApplyDefaults_CommonBackfill(t *testing.T) {
	in := defaultsInput(entity.SendTypeMMS, entity.AdTypeNonAd, "ko", "en")
	d := ApplyDefaults(&entity.MessageDraft{}, in)

	assert.Equal(t, entity.SendTypeMMS, d.SendType)
	assert.Equal(t, "새 메시지", d.Common.MessageName)
	assert.Equal(t, entity.AdTypeNonAd, d.Common.AdType)
	assert.Equal(t, entity.SendPurposeOther, d.Common.SendPurpose)
	assert.Equal(t, entity.CallbackTypeMain, d.Common.CallbackType)
	assert.Equal(t, []string{"ko", "en"}, d.Common.EnabledLangs)
	assert.Equal(t, entity.IncludeFlagNo, d.Common.MyktLink)
	assert.Equal(t, entity.IncludeFlagNo, d.Common.ClosingRemark)
	assert.Equal(t, entity.ImagePositionTop, d.Common.ImagePosition)
}

func TestApplyDefaults_AdCallbackDefault(t *testing.T) {
	in := defaultsInput(entity.SendTypeSMS, entity.AdTypeAd, "ko")
	d := ApplyDefaults(&entity.MessageDraft{}, in)
	assert.Equal(t, entity.CallbackType080, d.Common.CallbackType)
}

func TestApplyDefaults_ModelSendTypeOverridden(t *testing.T) {
	// 模型回传的类型不可信，一律以解析器结果为准
	in := defaultsInput(entity.SendTypeSMS, entity.AdTypeNonAd, "ko")
	d := ApplyDefaults(&entity.MessageDraft{SendType: entity.SendTypeRCSCarousel}, in)
	assert.Equal(t, entity.SendTypeSMS, d.SendType)
}

func TestApplyDefaults_Reservation(t *testing.T) {
	in := defaultsInput(entity.SendTypeSMS, entity.AdTypeNonAd, "ko")

	tests := []struct {
		name     string
		date     string
		time     string
		wantDate string
		wantTime string
	}{
		{"valid future kept, minute snapped", "2026-09-05", "14:37", "2026-09-05", "14:30"},
		{"past date replaced", "2026-08-20", "14:30", "2026-09-13", "14:30"},
		{"today replaced", "2026-08-30", "14:30", "2026-09-13", "14:30"},
		{"tomorrow kept", "2026-08-31", "09:00", "2026-08-31", "09:00"},
		{"malformed date replaced", "26-9-5", "14:30", "2026-09-13", "14:30"},
		{"time before window clamped", "2026-09-05", "07:45", "2026-09-05", "09:00"},
		{"time after window clamped", "2026-09-05", "21:10", "2026-09-05", "19:00"},
		{"window end exact kept", "2026-09-05", "19:00", "2026-09-05", "19:00"},
		{"malformed time replaced", "2026-09-05", "9시", "2026-09-05", "10:00"},
		{"empty both replaced", "", "", "2026-09-13", "10:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &entity.MessageDraft{}
			d.Common.ReservationDate = tt.date
			d.Common.ReservationTime = tt.time
			out := ApplyDefaults(d, in)
			assert.Equal(t, tt.wantDate, out.Common.ReservationDate)
			assert.Equal(t, tt.wantTime, out.Common.ReservationTime)
		})
	}
}

func TestApplyDefaults_CheckTypes(t *testing.T) {
	t.Run("valid pair kept", func(t *testing.T) {
		d := &entity.MessageDraft{RecommendedCheckTypes: []entity.CheckType{entity.CheckTypeDataProtection, entity.CheckTypeRisk}}
		out := ApplyDefaults(d, defaultsInput(entity.SendTypeSMS, entity.AdTypeNonAd, "ko"))
		assert.Equal(t, []entity.CheckType{entity.CheckTypeDataProtection, entity.CheckTypeRisk}, out.RecommendedCheckTypes)
	})

	t.Run("invalid and duplicate dropped then backfilled", func(t *testing.T) {
		d := &entity.MessageDraft{RecommendedCheckTypes: []entity.CheckType{"마케팅", entity.CheckTypeLegal, entity.CheckTypeLegal}}
		out := ApplyDefaults(d, defaultsInput(entity.SendTypeSMS, entity.AdTypeNonAd, "ko"))
		assert.Equal(t, []entity.CheckType{entity.CheckTypeLegal, entity.CheckTypeRisk}, out.RecommendedCheckTypes)
	})

	t.Run("ad backfill pair", func(t *testing.T) {
		out := ApplyDefaults(&entity.MessageDraft{}, defaultsInput(entity.SendTypeSMS, entity.AdTypeAd, "ko"))
		assert.Equal(t, []entity.CheckType{entity.CheckTypeLegal, entity.CheckTypeFairCompetition}, out.RecommendedCheckTypes)
	})
}

func TestApplyDefaults_SectionsByType(t *testing.T) {
	langs := []string{"ko", "en"}

	t.Run("sms keeps only sms", func(t *testing.T) {
		d := completeMMSDraft("ko")
		out := ApplyDefaults(d, defaultsInput(entity.SendTypeSMS, entity.AdTypeNonAd, langs...))
		require.NotNil(t, out.SMS)
		assert.Nil(t, out.MMS)
		assert.Nil(t, out.RCS)
		for _, lang := range langs {
			_, ok := out.SMS.Contents[lang]
			assert.True(t, ok, lang)
		}
	})

	t.Run("carousel pads slides and carries fallback mms", func(t *testing.T) {
		d := &entity.MessageDraft{
			RCS: &entity.RCSSection{Contents: map[string]entity.RCSLangContent{
				"ko": {Slides: []entity.Slide{{Title: "하나"}}},
			}},
		}
		out := ApplyDefaults(d, defaultsInput(entity.SendTypeRCSCarousel, entity.AdTypeNonAd, langs...))
		require.NotNil(t, out.RCS)
		require.NotNil(t, out.MMS)
		assert.Nil(t, out.SMS)
		assert.Equal(t, 3, out.RCS.SlideCount)
		assert.Len(t, out.RCS.Contents["ko"].Slides, 3)
		assert.Len(t, out.RCS.Contents["en"].Slides, 3)
		assert.Equal(t, "하나", out.RCS.Contents["ko"].Slides[0].Title)
	})

	t.Run("excess slides trimmed and buttons clamped", func(t *testing.T) {
		slides := make([]entity.Slide, 6)
		slides[0].ButtonCount = 7
		d := &entity.MessageDraft{
			RCS: &entity.RCSSection{Contents: map[string]entity.RCSLangContent{"ko": {Slides: slides}}},
		}
		out := ApplyDefaults(d, defaultsInput(entity.SendTypeRCSCarousel, entity.AdTypeNonAd, "ko"))
		assert.Len(t, out.RCS.Contents["ko"].Slides, 3)
		assert.Equal(t, 2, out.RCS.Contents["ko"].Slides[0].ButtonCount)
	})

	t.Run("rcs single forces one slide", func(t *testing.T) {
		in := defaultsInput(entity.SendTypeRCSSingle, entity.AdTypeNonAd, "ko")
		in.Resolution.SlideCount = 1
		out := ApplyDefaults(&entity.MessageDraft{}, in)
		assert.Equal(t, 1, out.RCS.SlideCount)
		assert.Len(t, out.RCS.Contents["ko"].Slides, 1)
	})
}

func TestApplyDefaults_AdFooter(t *testing.T) {
	in := defaultsInput(entity.SendTypeMMS, entity.AdTypeAd, "ko", "en")

	d := &entity.MessageDraft{
		MMS: &entity.MMSSection{Contents: map[string]entity.MMSBody{
			"ko": {Title: "제목", Body: "특별 혜택 안내", ImageName: "promo.jpg"},
			"en": {},
		}},
	}
	out := ApplyDefaults(d, in)

	body := out.MMS.Contents["ko"].Body
	assert.True(t, len(body) > 0)
	assert.Equal(t, "(광고) 특별 혜택 안내\n[무료수신거부] 080-451-0114", body)

	// 空正文不加标记
	assert.Equal(t, "", out.MMS.Contents["en"].Body)

	// 再跑一遍不重复追加
	again := ApplyDefaults(out, in)
	assert.Equal(t, body, again.MMS.Contents["ko"].Body)
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	inputs := []DefaultsInput{
		defaultsInput(entity.SendTypeSMS, entity.AdTypeAd, "ko"),
		defaultsInput(entity.SendTypeMMS, entity.AdTypeNonAd, "ko", "en", "zh"),
		defaultsInput(entity.SendTypeRCSCarousel, entity.AdTypeAd, "ko", "en"),
	}
	seed := &entity.MessageDraft{
		SMS: &entity.SMSSection{Contents: map[string]entity.SMSBody{"ko": {Body: "안내 문구"}}},
		MMS: &entity.MMSSection{Contents: map[string]entity.MMSBody{"ko": {Title: "제목", Body: "본문"}}},
		RCS: &entity.RCSSection{Contents: map[string]entity.RCSLangContent{
			"ko": {Slides: []entity.Slide{{Title: "카드", Body: "본문", ButtonCount: 9}}},
		}},
		RecommendedCheckTypes: []entity.CheckType{entity.CheckTypeLegal},
	}
	seed.Common.ReservationDate = "2020-01-01"
	seed.Common.ReservationTime = "23:59"

	for _, in := range inputs {
		t.Run(string(in.Resolution.SendType), func(t *testing.T) {
			var fresh entity.MessageDraft
			raw, err := json.Marshal(seed)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(raw, &fresh))

			once := ApplyDefaults(&fresh, in)
			first, err := json.Marshal(once)
			require.NoError(t, err)

			twice := ApplyDefaults(once, in)
			second, err := json.Marshal(twice)
			require.NoError(t, err)

			assert.Equal(t, string(first), string(second))
		})
	}
}
