package draft

import (
	"regexp"
	"strconv"
	"strings"

	"mimo-draft-api/internal/domain/entity"
)

// Resolution 类型解析结果。SendType 一经确定，生成与修复调用都不再变更。
type Resolution struct {
	SendType   entity.SendType
	SlideCount int
	// Rule 命中的规则名，仅用于日志
	Rule string
}

// 类型关键词，按优先级从高到低匹配。
// 轮播 > RCS 单卡 > MMS > SMS；"RCS_CAROUSEL" 包含 "RCS"、"RCS_MMS" 包含 "MMS"，
// 顺序保证长词先命中。
var (
	carouselKeywords  = []string{"RCS_CAROUSEL", "CAROUSEL", "캐러셀", "케러셀"}
	rcsSingleKeywords = []string{"RCS_MMS", "RCS 단일", "단일 카드", "RCS"}
	mmsKeywords       = []string{"MMS"}
	smsKeywords       = []string{"SMS"}
)

// 提示词里的“[메시지 타입]”式小节标题
var typeSectionRe = regexp.MustCompile(`(?m)^\s*\[\s*(?:메시지\s*)?타입\s*\]|^\s*\[\s*message\s*type\s*\]`)

// 内容启发式关键词
var (
	shortNoticeKeywords = []string{"OTP", "인증번호", "인증 번호", "인증코드", "인증 코드", "인증 문자", "한 줄", "한줄", "짧게"}
	multiCardKeywords   = []string{"슬라이드", "SLIDE", "여러 장", "여러 카드", "카드형"}
	ctaKeywords         = []string{"버튼", "링크", "바로가기", "신청하기", "자세히 보기", "CTA"}
)

var cardCountRe = regexp.MustCompile(`(\d+)\s*(?:장|개)\s*(?:카드|슬라이드)|(?:카드|슬라이드)\s*(\d+)\s*(?:장|개)?`)

// Resolve 确定本次生成请求的发送类型。
// 规则自上而下求值、先命中先返回：
//  1. 调用方显式指定的类型原样采用，不做推断。
//  2. 提示词中的类型小节（"[메시지 타입]" 标题）内做关键词匹配。
//  3. 提示词全文做同一组关键词匹配（弱信号）。
//  4. 内容启发式：短通知 → SMS；多卡/卡数提示 ≥2 → 轮播；交互按钮 → RCS 单卡。
//  5. 全无信号时兜底为 MMS。
func Resolve(explicit entity.SendType, prompt string, slideHint int) Resolution {
	if explicit.IsValid() {
		return withSlideCount(Resolution{SendType: explicit, Rule: "explicit"}, slideHint)
	}

	upper := strings.ToUpper(prompt)

	if section := typeSection(upper); section != "" {
		if t, ok := matchTypeKeywords(section); ok {
			return withSlideCount(Resolution{SendType: t, Rule: "type_section"}, slideHint)
		}
	}

	if t, ok := matchTypeKeywords(upper); ok {
		return withSlideCount(Resolution{SendType: t, Rule: "keyword"}, slideHint)
	}

	if containsAny(upper, shortNoticeKeywords) {
		return withSlideCount(Resolution{SendType: entity.SendTypeSMS, Rule: "heuristic_short"}, slideHint)
	}

	if slideHint >= entity.CarouselMinSlides || containsAny(upper, multiCardKeywords) || mentionsMultipleCards(upper) {
		return withSlideCount(Resolution{SendType: entity.SendTypeRCSCarousel, Rule: "heuristic_cards"}, slideHint)
	}

	if containsAny(upper, ctaKeywords) {
		return withSlideCount(Resolution{SendType: entity.SendTypeRCSSingle, Rule: "heuristic_cta"}, slideHint)
	}

	return withSlideCount(Resolution{SendType: entity.SendTypeMMS, Rule: "default"}, slideHint)
}

// ClampSlideCount 把轮播卡数收敛到 [2,5]，未指定时取 3。
func ClampSlideCount(hint int) int {
	if hint == 0 {
		return entity.CarouselDefaultSlides
	}
	if hint < entity.CarouselMinSlides {
		return entity.CarouselMinSlides
	}
	if hint > entity.CarouselMaxSlides {
		return entity.CarouselMaxSlides
	}
	return hint
}

func withSlideCount(r Resolution, slideHint int) Resolution {
	if r.SendType == entity.SendTypeRCSCarousel {
		r.SlideCount = ClampSlideCount(slideHint)
	} else if r.SendType == entity.SendTypeRCSSingle {
		r.SlideCount = 1
	}
	return r
}

// typeSection 截取类型小节正文：从标题行到下一个方括号标题或文本结尾
func typeSection(upper string) string {
	loc := typeSectionRe.FindStringIndex(upper)
	if loc == nil {
		return ""
	}

	rest := upper[loc[1]:]
	if next := strings.Index(rest, "\n["); next >= 0 {
		rest = rest[:next]
	}
	return rest
}

func matchTypeKeywords(text string) (entity.SendType, bool) {
	switch {
	case containsAny(text, carouselKeywords):
		return entity.SendTypeRCSCarousel, true
	case containsAny(text, rcsSingleKeywords):
		return entity.SendTypeRCSSingle, true
	case containsAny(text, mmsKeywords):
		return entity.SendTypeMMS, true
	case containsAny(text, smsKeywords):
		return entity.SendTypeSMS, true
	default:
		return "", false
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// mentionsMultipleCards 识别“카드 3장”“2장 카드”之类的数量表述
func mentionsMultipleCards(upper string) bool {
	m := cardCountRe.FindStringSubmatch(upper)
	if m == nil {
		return false
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		if n, err := strconv.Atoi(g); err == nil && n >= entity.CarouselMinSlides {
			return true
		}
	}
	return false
}
