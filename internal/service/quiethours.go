package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizeTime coerces a time-of-day string into 24-hour "HH:mm". Stored
// trigger times and formatter output can arrive with 12-hour markers,
// unicode spaces or stray separators; everything non-digit/non-colon is
// stripped before parsing. Malformed input normalizes to "00:00". The
// function is idempotent.
func NormalizeTime(timeStr string) string {
	if timeStr == "" {
		return "00:00"
	}

	upper := strings.ToUpper(timeStr)
	isPM := strings.Contains(upper, "PM")
	isAM := strings.Contains(upper, "AM")

	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ':' {
			return r
		}
		return -1
	}, timeStr)

	parts := strings.Split(clean, ":")
	if len(parts) < 2 {
		return "00:00"
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return "00:00"
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return "00:00"
	}

	if isPM && hours < 12 {
		hours += 12
	}
	if isAM && hours == 12 {
		hours = 0
	}

	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// IsWithinQuietHours reports whether now falls inside the [start, end]
// do-not-disturb window. Both bounds are inclusive and the window may wrap
// midnight. An absent bound disables quiet hours entirely. Comparison is
// lexicographic on normalized "HH:mm" strings, which matches numeric order
// for zero-padded times.
func IsWithinQuietHours(start, end string, now time.Time) bool {
	if start == "" || end == "" {
		return false
	}

	nowStr := NormalizeTime(now.Format("15:04"))
	startStr := NormalizeTime(start)
	endStr := NormalizeTime(end)

	if startStr <= endStr {
		// e.g. 02:00 to 06:00
		return nowStr >= startStr && nowStr <= endStr
	}
	// e.g. 21:00 to 08:00, crosses midnight
	return nowStr >= startStr || nowStr <= endStr
}
