package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mimo-draft-api/internal/domain/entity"
)

func TestResolve_ExplicitTypeWins(t *testing.T) {
	// 显式类型优先，提示词内容不参与推断
	res := Resolve(entity.SendTypeSMS, "캐러셀 5장으로 혜택을 소개해 주세요", 5)
	assert.Equal(t, entity.SendTypeSMS, res.SendType)
	assert.Equal(t, "explicit", res.Rule)

	res = Resolve(entity.SendTypeRCSCarousel, "짧은 OTP 안내 문자", 0)
	assert.Equal(t, entity.SendTypeRCSCarousel, res.SendType)
	assert.Equal(t, entity.CarouselDefaultSlides, res.SlideCount)
}

func TestResolve_TypeSection(t *testing.T) {
	prompt := "연말 프로모션 안내\n[메시지 타입]\nMMS로 보내주세요\n[기타]\n감사합니다"
	res := Resolve("", prompt, 0)
	assert.Equal(t, entity.SendTypeMMS, res.SendType)
	assert.Equal(t, "type_section", res.Rule)
}

func TestResolve_TypeSectionPrecedence(t *testing.T) {
	// 小节内캐러셀与 MMS 同时出现时，轮播词优先
	prompt := "[메시지 타입]\n캐러셀 MMS 둘 다 언급"
	res := Resolve("", prompt, 0)
	assert.Equal(t, entity.SendTypeRCSCarousel, res.SendType)
}

func TestResolve_BodyKeyword(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   entity.SendType
	}{
		{"carousel", "이번 캠페인은 캐러셀 형태로", entity.SendTypeRCSCarousel},
		{"rcs single", "RCS 단일 카드로 안내", entity.SendTypeRCSSingle},
		{"mms", "MMS로 자세히 설명", entity.SendTypeMMS},
		{"sms", "SMS 한 통으로 충분", entity.SendTypeSMS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve("", tt.prompt, 0)
			assert.Equal(t, tt.want, res.SendType)
			assert.Equal(t, "keyword", res.Rule)
		})
	}
}

func TestResolve_Heuristics(t *testing.T) {
	t.Run("otp resolves to sms", func(t *testing.T) {
		res := Resolve("", "고객 인증번호 발송 안내", 0)
		assert.Equal(t, entity.SendTypeSMS, res.SendType)
	})

	t.Run("slide hint resolves to carousel", func(t *testing.T) {
		res := Resolve("", "신규 요금제 혜택 소개", 3)
		assert.Equal(t, entity.SendTypeRCSCarousel, res.SendType)
		assert.Equal(t, 3, res.SlideCount)
	})

	t.Run("card count phrase resolves to carousel", func(t *testing.T) {
		res := Resolve("", "카드 3장으로 구성해 주세요", 0)
		assert.Equal(t, entity.SendTypeRCSCarousel, res.SendType)
	})

	t.Run("cta resolves to rcs single", func(t *testing.T) {
		res := Resolve("", "신청하기 버튼이 들어간 안내", 0)
		assert.Equal(t, entity.SendTypeRCSSingle, res.SendType)
	})
}

func TestResolve_DefaultIsMMS(t *testing.T) {
	// 아무 신호도 없으면 MMS
	res := Resolve("", "연말 감사 인사", 0)
	assert.Equal(t, entity.SendTypeMMS, res.SendType)
	assert.Equal(t, "default", res.Rule)
	assert.Equal(t, 0, res.SlideCount)
}

func TestClampSlideCount(t *testing.T) {
	assert.Equal(t, 3, ClampSlideCount(0))
	assert.Equal(t, 2, ClampSlideCount(1))
	assert.Equal(t, 2, ClampSlideCount(2))
	assert.Equal(t, 5, ClampSlideCount(5))
	assert.Equal(t, 5, ClampSlideCount(8))
}

func TestResolve_SlideCountClamped(t *testing.T) {
	res := Resolve(entity.SendTypeRCSCarousel, "혜택 소개", 8)
	assert.Equal(t, 5, res.SlideCount)

	res = Resolve(entity.SendTypeRCSCarousel, "혜택 소개", 1)
	assert.Equal(t, 2, res.SlideCount)
}
