// Package filter narrows a day's events for display.
package filter

import (
	"sort"
	"strings"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

// AllColors disables the color filter.
const AllColors = "all"

// Query selects events by text and color.
type Query struct {
	// Text is matched case-insensitively against title and description.
	Text string
	// Color is a palette label or value; empty or "all" matches any color.
	Color string
}

// Apply returns the events matching q sorted by start time. The input is
// not modified.
func Apply(events []model.Event, q Query) []model.Event {
	color := strings.TrimSpace(q.Color)
	anyColor := color == "" || strings.EqualFold(color, AllColors)
	want := model.ParseColor(color)

	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if !e.Matches(q.Text) {
			continue
		}
		if !anyColor && e.Color != want {
			continue
		}
		out = append(out, e)
	}
	SortByStart(out)
	return out
}

// SortByStart orders events by parsed start time, keeping input order for
// ties. Unparsable times sort last.
func SortByStart(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return startOf(events[i]) < startOf(events[j])
	})
}

func startOf(e model.Event) int {
	m, err := timecalc.ParseClock(e.StartTime)
	if err != nil {
		return timecalc.MinutesPerDay
	}
	return m
}
