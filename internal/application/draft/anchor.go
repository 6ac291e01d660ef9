package draft

import (
	"fmt"
	"time"

	"mimo-draft-api/internal/config"
	wfmodel "mimo-draft-api/internal/workflow/model"
)

// ComputeAnchors 按配置时区计算日期锚点。
// 锚点在请求入口算一次并贯穿整条流水线，之后的兜底逻辑只依赖锚点，不再读时钟。
func ComputeAnchors(cfg *config.MessageConfig, now time.Time) wfmodel.DateAnchors {
	loc := time.UTC
	if cfg.Timezone != "" {
		if l, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = l
		}
	}

	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	days := cfg.ReservationDefaultDays
	if days <= 0 {
		days = 14
	}

	defaultTime := cfg.ReservationDefaultTime
	if defaultTime == "" {
		defaultTime = fmt.Sprintf("%02d:00", cfg.SendWindowStartHour+1)
	}

	return wfmodel.DateAnchors{
		TodayDate:    today.Format("2006-01-02"),
		TomorrowDate: today.AddDate(0, 0, 1).Format("2006-01-02"),
		DefaultDate:  today.AddDate(0, 0, days).Format("2006-01-02"),
		DefaultTime:  defaultTime,
	}
}
