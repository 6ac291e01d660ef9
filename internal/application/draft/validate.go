package draft

import (
	"fmt"

	"mimo-draft-api/internal/domain/entity"
)

// Validate 按已确定的发送类型检查草稿结构完整性。
// 返回缺陷列表；为空表示通过。缺陷文本会原样进入修复调用的提示词。
func Validate(d *entity.MessageDraft, res Resolution, langs []string) []string {
	if d == nil {
		return []string{"draft is nil"}
	}

	var issues []string

	switch res.SendType {
	case entity.SendTypeSMS:
		issues = append(issues, validateSMS(d, langs)...)
	case entity.SendTypeMMS:
		issues = append(issues, validateMMS(d, langs)...)
	case entity.SendTypeRCSSingle:
		issues = append(issues, validateRCS(d, langs, 1, 1)...)
		// RCS 系列必须附带替代 MMS
		issues = append(issues, validateMMS(d, langs)...)
	case entity.SendTypeRCSCarousel:
		issues = append(issues, validateRCS(d, langs, entity.CarouselMinSlides, entity.CarouselMaxSlides)...)
		issues = append(issues, validateMMS(d, langs)...)
	}

	return issues
}

func validateSMS(d *entity.MessageDraft, langs []string) []string {
	var issues []string
	if d.SMS == nil || d.SMS.Contents == nil {
		return []string{"sms.contents is missing"}
	}
	for _, lang := range langs {
		body, ok := d.SMS.Contents[lang]
		if !ok || body.Body == "" {
			issues = append(issues, fmt.Sprintf("sms.contents.%s.body is empty", lang))
		}
	}
	return issues
}

func validateMMS(d *entity.MessageDraft, langs []string) []string {
	var issues []string
	if d.MMS == nil || d.MMS.Contents == nil {
		return []string{"mms.contents is missing"}
	}
	for _, lang := range langs {
		body, ok := d.MMS.Contents[lang]
		if !ok {
			issues = append(issues, fmt.Sprintf("mms.contents.%s is missing", lang))
			continue
		}
		if body.Title == "" {
			issues = append(issues, fmt.Sprintf("mms.contents.%s.title is empty", lang))
		}
		if body.Body == "" {
			issues = append(issues, fmt.Sprintf("mms.contents.%s.body is empty", lang))
		}
		if body.ImageName == "" {
			issues = append(issues, fmt.Sprintf("mms.contents.%s.imageName is empty", lang))
		}
	}
	return issues
}

func validateRCS(d *entity.MessageDraft, langs []string, minSlides, maxSlides int) []string {
	var issues []string
	if d.RCS == nil || d.RCS.Contents == nil {
		return []string{"rcs.contents is missing"}
	}
	for _, lang := range langs {
		content, ok := d.RCS.Contents[lang]
		if !ok || len(content.Slides) == 0 {
			issues = append(issues, fmt.Sprintf("rcs.contents.%s.slides is empty", lang))
			continue
		}
		if len(content.Slides) < minSlides || len(content.Slides) > maxSlides {
			issues = append(issues, fmt.Sprintf("rcs.contents.%s.slides length %d is out of range [%d,%d]",
				lang, len(content.Slides), minSlides, maxSlides))
		}
		for i, slide := range content.Slides {
			if slide.Title == "" {
				issues = append(issues, fmt.Sprintf("rcs.contents.%s.slides[%d].title is empty", lang, i))
			}
			if slide.Body == "" {
				issues = append(issues, fmt.Sprintf("rcs.contents.%s.slides[%d].body is empty", lang, i))
			}
			if slide.ImageName == "" {
				issues = append(issues, fmt.Sprintf("rcs.contents.%s.slides[%d].imageName is empty", lang, i))
			}
		}
	}
	return issues
}
