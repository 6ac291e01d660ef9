package draft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mimo-draft-api/internal/config"
)

func TestComputeAnchors(t *testing.T) {
	cfg := &config.MessageConfig{
		Timezone:               "Asia/Seoul",
		ReservationDefaultDays: 14,
		ReservationDefaultTime: "10:00",
	}

	// UTC 2026-08-30 20:00 在首尔已是 8 月 31 日
	now := time.Date(2026, 8, 30, 20, 0, 0, 0, time.UTC)
	a := ComputeAnchors(cfg, now)

	assert.Equal(t, "2026-08-31", a.TodayDate)
	assert.Equal(t, "2026-09-01", a.TomorrowDate)
	assert.Equal(t, "2026-09-14", a.DefaultDate)
	assert.Equal(t, "10:00", a.DefaultTime)
}

func TestComputeAnchors_MonthBoundary(t *testing.T) {
	cfg := &config.MessageConfig{Timezone: "Asia/Seoul", ReservationDefaultDays: 14}
	now := time.Date(2026, 12, 31, 3, 0, 0, 0, time.UTC)
	a := ComputeAnchors(cfg, now)

	assert.Equal(t, "2026-12-31", a.TodayDate)
	assert.Equal(t, "2027-01-01", a.TomorrowDate)
	assert.Equal(t, "2027-01-14", a.DefaultDate)
}

func TestComputeAnchors_Fallbacks(t *testing.T) {
	cfg := &config.MessageConfig{
		Timezone:            "Not/AZone",
		SendWindowStartHour: 9,
	}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	a := ComputeAnchors(cfg, now)

	// 非法时区回退 UTC，默认天数 14，默认时间为时段起点后一小时
	assert.Equal(t, "2026-08-30", a.TodayDate)
	assert.Equal(t, "2026-09-13", a.DefaultDate)
	assert.Equal(t, "10:00", a.DefaultTime)
}
