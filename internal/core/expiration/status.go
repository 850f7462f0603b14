package expiration

import (
	"math"
	"strings"
	"time"

	"snap-pantry/internal/pkg/common"
)

// expiringSoonDays 剩餘天數在此範圍內視為即將到期
const expiringSoonDays = 3

var parseLayouts = []string{"1/2/2006", DateLayout, "2006-01-02"}

// ParseDate 解析到期日，使用 loc 時區
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Status 依到期日與目前時間判斷狀態
func Status(expirationDate string, now time.Time) common.ExpirationStatus {
	exp, ok := ParseDate(expirationDate, now.Location())
	if !ok {
		return common.ExpirationUnknown
	}
	if exp.Before(now) {
		return common.ExpirationExpired
	}

	days := math.Ceil(exp.Sub(now).Hours() / 24)
	if days > 0 && days <= expiringSoonDays {
		return common.ExpirationExpiringSoon
	}
	return common.ExpirationFresh
}
