package draft

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mimo-draft-api/internal/domain/entity"
	wfmodel "mimo-draft-api/internal/workflow/model"
)

// DefaultsInput 兜底规整所需的全部外部事实。
// 日期锚点在请求入口算好传入，整个兜底过程不读时钟，保证同输入同输出。
type DefaultsInput struct {
	Resolution   Resolution
	AdType       entity.AdType
	EnabledLangs []string
	Anchors      wfmodel.DateAnchors

	// 发送时段（时），零值按 09~19 处理
	SendWindowStartHour int
	SendWindowEndHour   int
}

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ApplyDefaults 对草稿做确定性的兜底与规整，保证返回给调用方的草稿结构完整。
// 幂等：对已完整的草稿再跑一遍不产生任何变化。
//
// 规则按序执行：
//  1. sendType 强制为解析器确定的值，不信任模型回传的类型。
//  2. common 缺失字段补安全默认值。
//  3. 预约日期/时间校验格式，非法或早于明天则用服务端锚点覆盖。
//  4. recommendedCheckTypes 去重去非法值后不足 2 个时按广告与否覆盖为策略组合。
//  5. 当前类型的内容段对每个启用语言补齐形态完整的空条目。
//  6. 轮播卡数规整为解析器确定的 [2,5] 值。
//  7. 丢弃与当前类型无关的内容段。
//
// 广告草稿最后补齐 "(광고)" 头部标记与免费受信拒否尾行（仅非空正文）。
func ApplyDefaults(d *entity.MessageDraft, in DefaultsInput) *entity.MessageDraft {
	if d == nil {
		d = &entity.MessageDraft{}
	}

	langs := in.EnabledLangs
	if len(langs) == 0 {
		langs = []string{"ko"}
	}

	// 规则 1：类型以解析器为准
	d.SendType = in.Resolution.SendType

	// 规则 2：common 兜底
	applyCommonDefaults(d, in, langs)

	// 规则 3：预约日期/时间
	applyReservationDefaults(d, in)

	// 规则 4：检讨类别
	applyCheckTypeDefaults(d, in.AdType)

	// 规则 5~7：内容段补齐、卡数规整、无关段丢弃
	applySectionDefaults(d, in, langs)

	// 广告文案强制要素
	if in.AdType == entity.AdTypeAd {
		applyAdFooter(d)
	}

	return d
}

func applyCommonDefaults(d *entity.MessageDraft, in DefaultsInput, langs []string) {
	c := &d.Common

	// 调用方给定的事实直接覆盖
	c.AdType = in.AdType
	if c.AdType == "" {
		c.AdType = entity.AdTypeNonAd
	}
	c.EnabledLangs = append([]string(nil), langs...)

	if c.MessageName == "" {
		c.MessageName = "새 메시지"
	}

	switch c.SendPurpose {
	case entity.SendPurposeNotice, entity.SendPurposeEvent, entity.SendPurposeAlert, entity.SendPurposeOther:
	default:
		c.SendPurpose = entity.SendPurposeOther
	}

	switch c.CallbackType {
	case entity.CallbackTypeMain, entity.CallbackType080, entity.CallbackTypePersonal:
	default:
		if c.AdType == entity.AdTypeAd {
			c.CallbackType = entity.CallbackType080
		} else {
			c.CallbackType = entity.CallbackTypeMain
		}
	}

	if c.MyktLink != entity.IncludeFlagYes {
		c.MyktLink = entity.IncludeFlagNo
	}
	if c.ClosingRemark != entity.IncludeFlagYes {
		c.ClosingRemark = entity.IncludeFlagNo
	}
	if c.ImagePosition != entity.ImagePositionBottom {
		c.ImagePosition = entity.ImagePositionTop
	}
}

func applyReservationDefaults(d *entity.MessageDraft, in DefaultsInput) {
	c := &d.Common

	// ISO 日期可按字典序比较；早于明天的预约日一律视为无效
	if !dateRe.MatchString(c.ReservationDate) || c.ReservationDate < in.Anchors.TomorrowDate {
		c.ReservationDate = in.Anchors.DefaultDate
	}

	startHour := in.SendWindowStartHour
	endHour := in.SendWindowEndHour
	if startHour == 0 && endHour == 0 {
		startHour, endHour = 9, 19
	}

	t, ok := normalizeTime(c.ReservationTime, startHour, endHour)
	if !ok {
		t, _ = normalizeTime(in.Anchors.DefaultTime, startHour, endHour)
	}
	c.ReservationTime = t
}

// normalizeTime 校验 HH:MM，把分钟对齐到 10 分钟刻度并收敛到发送时段内
func normalizeTime(v string, startHour, endHour int) (string, bool) {
	if !timeRe.MatchString(v) {
		return "", false
	}

	hour, err1 := strconv.Atoi(v[:2])
	minute, err2 := strconv.Atoi(v[3:])
	if err1 != nil || err2 != nil || hour > 23 || minute > 59 {
		return "", false
	}

	minute = minute / 10 * 10
	if hour < startHour {
		hour, minute = startHour, 0
	}
	if hour > endHour || (hour == endHour && minute > 0) {
		hour, minute = endHour, 0
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

func applyCheckTypeDefaults(d *entity.MessageDraft, adType entity.AdType) {
	seen := make(map[entity.CheckType]bool, 4)
	var kept []entity.CheckType
	for _, ct := range d.RecommendedCheckTypes {
		if !ct.IsValid() || seen[ct] {
			continue
		}
		seen[ct] = true
		kept = append(kept, ct)
	}

	if len(kept) < 2 {
		if adType == entity.AdTypeAd {
			kept = []entity.CheckType{entity.CheckTypeLegal, entity.CheckTypeFairCompetition}
		} else {
			kept = []entity.CheckType{entity.CheckTypeLegal, entity.CheckTypeRisk}
		}
	}
	d.RecommendedCheckTypes = kept
}

func applySectionDefaults(d *entity.MessageDraft, in DefaultsInput, langs []string) {
	switch in.Resolution.SendType {
	case entity.SendTypeSMS:
		ensureSMSSection(d, langs)
		d.RCS = nil
		d.MMS = nil

	case entity.SendTypeMMS:
		ensureMMSSection(d, langs)
		d.SMS = nil
		d.RCS = nil

	case entity.SendTypeRCSSingle:
		ensureRCSSection(d, langs, 1)
		ensureMMSSection(d, langs)
		d.SMS = nil

	case entity.SendTypeRCSCarousel:
		ensureRCSSection(d, langs, in.Resolution.SlideCount)
		ensureMMSSection(d, langs)
		d.SMS = nil
	}
}

func ensureSMSSection(d *entity.MessageDraft, langs []string) {
	if d.SMS == nil {
		d.SMS = &entity.SMSSection{}
	}
	if d.SMS.Contents == nil {
		d.SMS.Contents = make(map[string]entity.SMSBody, len(langs))
	}
	for _, lang := range langs {
		if _, ok := d.SMS.Contents[lang]; !ok {
			d.SMS.Contents[lang] = entity.SMSBody{}
		}
	}
}

func ensureMMSSection(d *entity.MessageDraft, langs []string) {
	if d.MMS == nil {
		d.MMS = &entity.MMSSection{}
	}
	if d.MMS.Contents == nil {
		d.MMS.Contents = make(map[string]entity.MMSBody, len(langs))
	}
	for _, lang := range langs {
		if _, ok := d.MMS.Contents[lang]; !ok {
			d.MMS.Contents[lang] = entity.MMSBody{}
		}
	}
}

func ensureRCSSection(d *entity.MessageDraft, langs []string, slideCount int) {
	if slideCount < 1 {
		slideCount = 1
	}

	if d.RCS == nil {
		d.RCS = &entity.RCSSection{}
	}
	if d.RCS.Contents == nil {
		d.RCS.Contents = make(map[string]entity.RCSLangContent, len(langs))
	}
	d.RCS.SlideCount = slideCount

	for _, lang := range langs {
		content := d.RCS.Contents[lang]
		switch {
		case len(content.Slides) > slideCount:
			content.Slides = content.Slides[:slideCount]
		case len(content.Slides) < slideCount:
			content.Slides = append(content.Slides, entity.EmptySlides(slideCount-len(content.Slides))...)
		}
		for i := range content.Slides {
			if content.Slides[i].ButtonCount < 0 {
				content.Slides[i].ButtonCount = 0
			}
			if content.Slides[i].ButtonCount > 2 {
				content.Slides[i].ButtonCount = 2
			}
		}
		d.RCS.Contents[lang] = content
	}
}

// applyAdFooter 为广告草稿的非空正文补齐头部标记与受信拒否尾行。
// 已包含的正文不再重复追加。
func applyAdFooter(d *entity.MessageDraft) {
	if d.SMS != nil {
		for lang, body := range d.SMS.Contents {
			body.Body = withAdMarkers(body.Body)
			d.SMS.Contents[lang] = body
		}
	}
	if d.MMS != nil {
		for lang, body := range d.MMS.Contents {
			body.Body = withAdMarkers(body.Body)
			d.MMS.Contents[lang] = body
		}
	}
}

func withAdMarkers(body string) string {
	if body == "" {
		return body
	}
	if !strings.HasPrefix(body, entity.AdHeaderTag) {
		body = entity.AdHeaderTag + " " + body
	}
	if !strings.Contains(body, entity.AdOptOutLine) {
		body = body + "\n" + entity.AdOptOutLine
	}
	return body
}
