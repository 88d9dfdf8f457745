package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the exclusive upper bound of a clock value.
const MinutesPerDay = 24 * 60

// ParseClock parses "HH:MM" or "H:MM" into minutes since midnight. Both
// parts must be plain digits: one or two for the hour, exactly two for the
// minute.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("time out of range: %q", s)
	}
	return h*60 + m, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatClock formats minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes >= MinutesPerDay {
		minutes = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockOf returns the wall-clock minutes since midnight of t.
func ClockOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// At returns the instant on day's calendar date at the given clock minutes.
func At(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

// FormatDuration formats minutes as "1h 40m", "2h" or "45m".
func FormatDuration(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// DayKey returns the storage partition key for t's calendar day:
// "{year}-{month}-{day}", 1-based month, no zero padding.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// ParseDayKey decodes a key produced by DayKey.
func ParseDayKey(key string) (int, time.Month, int, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid day key %q", key)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid day key %q: %w", key, err)
		}
		nums[i] = n
	}
	y, m, d := nums[0], time.Month(nums[1]), nums[2]
	if cy, cm, cd := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Date(); cy != y || cm != m || cd != d {
		return 0, 0, 0, fmt.Errorf("day key out of range: %q", key)
	}
	return y, m, d, nil
}

// DayFromKey returns local midnight of the day a key encodes.
func DayFromKey(key string) (time.Time, error) {
	y, m, d, err := ParseDayKey(key)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
}

// ParseDate parses "YYYY-MM-DD" as local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// ISODate formats t as "YYYY-MM-DD".
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}

// MonthRange returns the first and last day of the month at local midnight.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// MonthLabel returns a label like "March 2026".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month.String(), year)
}

// LongDate returns a label like "March 05, 2026".
func LongDate(t time.Time) string {
	return t.Format("January 02, 2006")
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
