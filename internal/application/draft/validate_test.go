package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mimo-draft-api/internal/domain/entity"
)

func completeMMSDraft(langs ...string) *entity.MessageDraft {
	d := &entity.MessageDraft{
		SendType: entity.SendTypeMMS,
		MMS:      &entity.MMSSection{Contents: map[string]entity.MMSBody{}},
	}
	for _, lang := range langs {
		d.MMS.Contents[lang] = entity.MMSBody{Title: "제목", Body: "본문", ImageName: "promo.jpg"}
	}
	return d
}

func TestValidate_SMS(t *testing.T) {
	res := Resolution{SendType: entity.SendTypeSMS}

	t.Run("valid", func(t *testing.T) {
		d := &entity.MessageDraft{
			SMS: &entity.SMSSection{Contents: map[string]entity.SMSBody{
				"ko": {Body: "안내"},
				"en": {Body: "notice"},
			}},
		}
		assert.Empty(t, Validate(d, res, []string{"ko", "en"}))
	})

	t.Run("missing language", func(t *testing.T) {
		d := &entity.MessageDraft{
			SMS: &entity.SMSSection{Contents: map[string]entity.SMSBody{
				"ko": {Body: "안내"},
			}},
		}
		issues := Validate(d, res, []string{"ko", "en"})
		assert.Len(t, issues, 1)
		assert.Contains(t, issues[0], "sms.contents.en.body")
	})

	t.Run("missing section", func(t *testing.T) {
		issues := Validate(&entity.MessageDraft{}, res, []string{"ko"})
		assert.Equal(t, []string{"sms.contents is missing"}, issues)
	})
}

func TestValidate_MMS(t *testing.T) {
	res := Resolution{SendType: entity.SendTypeMMS}

	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, Validate(completeMMSDraft("ko"), res, []string{"ko"}))
	})

	t.Run("empty fields reported individually", func(t *testing.T) {
		d := &entity.MessageDraft{
			MMS: &entity.MMSSection{Contents: map[string]entity.MMSBody{
				"ko": {Title: "제목"},
			}},
		}
		issues := Validate(d, res, []string{"ko"})
		assert.Len(t, issues, 2)
		assert.Contains(t, issues[0], "mms.contents.ko.body")
		assert.Contains(t, issues[1], "mms.contents.ko.imageName")
	})
}

func TestValidate_RCSSingle(t *testing.T) {
	res := Resolution{SendType: entity.SendTypeRCSSingle, SlideCount: 1}
	langs := []string{"ko"}

	d := completeMMSDraft("ko")
	d.SendType = entity.SendTypeRCSSingle
	d.RCS = &entity.RCSSection{
		SlideCount: 1,
		Contents: map[string]entity.RCSLangContent{
			"ko": {Slides: []entity.Slide{{Title: "카드", Body: "본문", ImageName: "card.jpg", ButtonCount: 1, Button1Label: "자세히 보기", Button1URL: "https://example.com"}}},
		},
	}
	assert.Empty(t, Validate(d, res, langs))

	t.Run("two slides is out of range", func(t *testing.T) {
		bad := completeMMSDraft("ko")
		bad.RCS = &entity.RCSSection{Contents: map[string]entity.RCSLangContent{
			"ko": {Slides: []entity.Slide{
				{Title: "a", Body: "b", ImageName: "c"},
				{Title: "a", Body: "b", ImageName: "c"},
			}},
		}}
		issues := Validate(bad, res, langs)
		assert.Len(t, issues, 1)
		assert.Contains(t, issues[0], "out of range")
	})

	t.Run("missing fallback mms", func(t *testing.T) {
		bad := &entity.MessageDraft{
			RCS: &entity.RCSSection{Contents: map[string]entity.RCSLangContent{
				"ko": {Slides: []entity.Slide{{Title: "카드", Body: "본문", ImageName: "card.jpg"}}},
			}},
		}
		issues := Validate(bad, res, langs)
		assert.Equal(t, []string{"mms.contents is missing"}, issues)
	})
}

func TestValidate_RCSCarousel(t *testing.T) {
	res := Resolution{SendType: entity.SendTypeRCSCarousel, SlideCount: 3}
	langs := []string{"ko", "en"}

	slide := entity.Slide{Title: "카드", Body: "본문", ImageName: "card.jpg"}
	d := completeMMSDraft("ko", "en")
	d.RCS = &entity.RCSSection{
		SlideCount: 3,
		Contents: map[string]entity.RCSLangContent{
			"ko": {Slides: []entity.Slide{slide, slide, slide}},
			"en": {Slides: []entity.Slide{slide, slide, slide}},
		},
	}
	assert.Empty(t, Validate(d, res, langs))

	t.Run("single slide is below minimum", func(t *testing.T) {
		bad := completeMMSDraft("ko")
		bad.RCS = &entity.RCSSection{Contents: map[string]entity.RCSLangContent{
			"ko": {Slides: []entity.Slide{slide}},
		}}
		issues := Validate(bad, Resolution{SendType: entity.SendTypeRCSCarousel, SlideCount: 3}, []string{"ko"})
		assert.Len(t, issues, 1)
		assert.Contains(t, issues[0], "out of range")
	})

	t.Run("empty slide fields reported per index", func(t *testing.T) {
		bad := completeMMSDraft("ko")
		bad.RCS = &entity.RCSSection{Contents: map[string]entity.RCSLangContent{
			"ko": {Slides: []entity.Slide{slide, {Title: "카드"}}},
		}}
		issues := Validate(bad, Resolution{SendType: entity.SendTypeRCSCarousel, SlideCount: 2}, []string{"ko"})
		assert.Len(t, issues, 2)
		assert.Contains(t, issues[0], "slides[1].body")
		assert.Contains(t, issues[1], "slides[1].imageName")
	})
}
