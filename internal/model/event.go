package model

import (
	"strings"

	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

// Event is a titled time slot on one calendar day.
// Date is informational; the owning Snapshot bucket decides the day.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
	Color       Color  `json:"color,omitempty"`
	Date        string `json:"date,omitempty"`
}

// Placement pairs an event with the day bucket it belongs to.
type Placement struct {
	DayKey string
	Event  Event
}

// Clock returns the parsed start and end as minutes since midnight.
func (e Event) Clock() (start, end int, err error) {
	start, err = timecalc.ParseClock(e.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = timecalc.ParseClock(e.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// TimeRange renders "09:00 - 10:30". Unparsable times are shown verbatim.
func (e Event) TimeRange() string {
	return normalizeClock(e.StartTime) + " - " + normalizeClock(e.EndTime)
}

// Matches reports whether query is a case-insensitive substring of the
// title or the description.
func (e Event) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

func normalizeClock(s string) string {
	m, err := timecalc.ParseClock(s)
	if err != nil {
		return s
	}
	return timecalc.FormatClock(m)
}
