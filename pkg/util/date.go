package util

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"20060102",
	"2006-01",
	"200601",
	"2006",
}

// ParseDate parses the date formats market-data providers emit and
// truncates the result to a UTC calendar day. Month-only and year-only values
// resolve to the first day of the period.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// ParseDateValue accepts either a string date or epoch milliseconds, as
// JSON tables from the upstream may carry both.
func ParseDateValue(v any) (time.Time, bool) {
	switch x := v.(type) {
	case string:
		return ParseDate(x)
	case float64:
		if x <= 0 {
			return time.Time{}, false
		}
		return Day(time.UnixMilli(int64(x)).UTC()), true
	case int64:
		return Day(time.UnixMilli(x).UTC()), true
	case time.Time:
		return Day(x), true
	}
	return time.Time{}, false
}

// Day returns midnight UTC of t's calendar date in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatCompact renders t as YYYYMMDD, the form upstream history queries expect.
func FormatCompact(t time.Time) string {
	return t.Format("20060102")
}
