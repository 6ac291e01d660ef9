// Package entity 定义领域实体
package entity

// SendType 消息发送类型
// 线上契约的枚举值沿用韩文运营端的原始取值，RCS 单卡的线上值为 "RCS_MMS"。
type SendType string

const (
	SendTypeSMS         SendType = "SMS"
	SendTypeMMS         SendType = "MMS"
	SendTypeRCSSingle   SendType = "RCS_MMS"
	SendTypeRCSCarousel SendType = "RCS_CAROUSEL"
)

// IsValid 判断是否为合法发送类型
func (t SendType) IsValid() bool {
	switch t {
	case SendTypeSMS, SendTypeMMS, SendTypeRCSSingle, SendTypeRCSCarousel:
		return true
	default:
		return false
	}
}

// NeedsRCS 该类型是否携带 RCS 内容段
func (t SendType) NeedsRCS() bool {
	return t == SendTypeRCSSingle || t == SendTypeRCSCarousel
}

// NeedsMMS 该类型是否携带 MMS 内容段（RCS 系列必须附带替代 MMS）
func (t SendType) NeedsMMS() bool {
	return t == SendTypeMMS || t == SendTypeRCSSingle || t == SendTypeRCSCarousel
}

// AdType 广告与否（광고/비광고）
type AdType string

const (
	AdTypeAd    AdType = "광고"
	AdTypeNonAd AdType = "비광고"
)

// SendPurpose 发送目的
type SendPurpose string

const (
	SendPurposeNotice SendPurpose = "공지"
	SendPurposeEvent  SendPurpose = "이벤트"
	SendPurposeAlert  SendPurpose = "알림"
	SendPurposeOther  SendPurpose = "기타"
)

// CallbackType 回拨号码类型
type CallbackType string

const (
	CallbackTypeMain     CallbackType = "대표번호"
	CallbackType080      CallbackType = "080"
	CallbackTypePersonal CallbackType = "개인번호"
)

// IncludeFlag 포함/미포함 标记
type IncludeFlag string

const (
	IncludeFlagYes IncludeFlag = "포함"
	IncludeFlagNo  IncludeFlag = "미포함"
)

// ImagePosition 图片位置
type ImagePosition string

const (
	ImagePositionTop    ImagePosition = "위"
	ImagePositionBottom ImagePosition = "아래"
)

// CheckType 4 大检讨类别
type CheckType string

const (
	CheckTypeLegal           CheckType = "법률"
	CheckTypeDataProtection  CheckType = "정보보호"
	CheckTypeRisk            CheckType = "리스크"
	CheckTypeFairCompetition CheckType = "공정경쟁"
)

// IsValid 判断是否为合法检讨类别
func (c CheckType) IsValid() bool {
	switch c {
	case CheckTypeLegal, CheckTypeDataProtection, CheckTypeRisk, CheckTypeFairCompetition:
		return true
	default:
		return false
	}
}

// 轮播卡片数范围与默认值
const (
	CarouselMinSlides     = 2
	CarouselMaxSlides     = 5
	CarouselDefaultSlides = 3
)

// 广告消息的强制文案
const (
	AdHeaderTag  = "(광고)"
	AdOptOutLine = "[무료수신거부] 080-451-0114"
)

// CommonSettings 公共设置块
type CommonSettings struct {
	MessageName     string        `json:"messageName"`
	AdType          AdType        `json:"adType"`
	SendPurpose     SendPurpose   `json:"sendPurpose"`
	CallbackType    CallbackType  `json:"callbackType"`
	EnabledLangs    []string      `json:"enabledLangs"`
	ReservationDate string        `json:"reservationDate"`
	ReservationTime string        `json:"reservationTime"`
	MyktLink        IncludeFlag   `json:"myktLink"`
	ClosingRemark   IncludeFlag   `json:"closingRemark"`
	ImagePosition   ImagePosition `json:"imagePosition"`
}

// Slide 一张 RCS 卡片
type Slide struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	ImageName    string `json:"imageName"`
	ButtonCount  int    `json:"buttonCount"`
	Button1Label string `json:"button1Label"`
	Button2Label string `json:"button2Label"`
	Button1URL   string `json:"button1Url"`
	Button2URL   string `json:"button2Url"`
}

// SMSBody 按语言的 SMS 正文
type SMSBody struct {
	Body string `json:"body"`
}

// RCSLangContent 按语言的 RCS 卡片列表
type RCSLangContent struct {
	Slides []Slide `json:"slides"`
}

// MMSBody 按语言的 MMS 正文
type MMSBody struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	ImageName string `json:"imageName"`
}

// SMSSection SMS 内容段
type SMSSection struct {
	Contents map[string]SMSBody `json:"contents"`
}

// RCSSection RCS 内容段
type RCSSection struct {
	SlideCount int                       `json:"slideCount"`
	Contents   map[string]RCSLangContent `json:"contents"`
}

// MMSSection MMS 内容段
type MMSSection struct {
	Contents map[string]MMSBody `json:"contents"`
}

// MessageDraft 生成流水线返回的消息草稿
// 编辑器按字段粒度把它合并进可编辑状态。
type MessageDraft struct {
	SendType              SendType       `json:"sendType"`
	Common                CommonSettings `json:"common"`
	SMS                   *SMSSection    `json:"sms,omitempty"`
	RCS                   *RCSSection    `json:"rcs,omitempty"`
	MMS                   *MMSSection    `json:"mms,omitempty"`
	RecommendedCheckTypes []CheckType    `json:"recommendedCheckTypes"`
}

// EmptySlide 空卡片（形态完整、值为空）
func EmptySlide() Slide {
	return Slide{}
}

// EmptySlides 生成 count 张空卡片
func EmptySlides(count int) []Slide {
	slides := make([]Slide, count)
	return slides
}

// HasSMSBody 判断该语言的 SMS 正文是否非空
func (d *MessageDraft) HasSMSBody(lang string) bool {
	if d.SMS == nil {
		return false
	}
	body, ok := d.SMS.Contents[lang]
	return ok && body.Body != ""
}

// SlidesFor 返回该语言的卡片列表（缺失时为 nil）
func (d *MessageDraft) SlidesFor(lang string) []Slide {
	if d.RCS == nil {
		return nil
	}
	return d.RCS.Contents[lang].Slides
}
