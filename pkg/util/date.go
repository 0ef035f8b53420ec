package util

import (
	"fmt"
	"time"
)

const (
	DayLayout    = "20060102"
	MinuteLayout = "200601021504"
)

// ParseTradeDate parses a YYYYMMDD or YYYYMMDDHHmm string as exchange wall
// clock time carried in UTC.
func ParseTradeDate(s string) (time.Time, error) {
	if !isDigits(s) {
		return time.Time{}, fmt.Errorf("trade date %q: not numeric", s)
	}
	switch len(s) {
	case len(DayLayout):
		return time.ParseInLocation(DayLayout, s, time.UTC)
	case len(MinuteLayout):
		return time.ParseInLocation(MinuteLayout, s, time.UTC)
	default:
		return time.Time{}, fmt.Errorf("trade date %q: want YYYYMMDD or YYYYMMDDHHmm", s)
	}
}

// DayBound truncates an end bound to YYYYMMDD.
func DayBound(s string) (string, error) {
	t, err := ParseTradeDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DayLayout), nil
}

// DayStartBound converts a start bound to YYYYMMDD. A start past midnight
// rounds up to the next day.
func DayStartBound(s string) (string, error) {
	t, err := ParseTradeDate(s)
	if err != nil {
		return "", err
	}
	if t.Hour() != 0 || t.Minute() != 0 {
		t = t.AddDate(0, 0, 1)
	}
	return t.Format(DayLayout), nil
}

// MinuteBound widens a bound to YYYYMMDDHHmm. A bare date expands to the
// first minute of the day for a start bound and the last for an end bound.
func MinuteBound(s string, isEnd bool) (string, error) {
	t, err := ParseTradeDate(s)
	if err != nil {
		return "", err
	}
	if len(s) == len(DayLayout) && isEnd {
		t = t.Add(24*time.Hour - time.Minute)
	}
	return t.Format(MinuteLayout), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
