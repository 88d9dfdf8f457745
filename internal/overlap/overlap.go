// Package overlap decides whether a time slot collides with the events
// already booked on the same day.
package overlap

import (
	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

// Interval is a start/end pair of "HH:MM" clock values on an implicit day.
type Interval struct {
	Start string
	End   string
}

// Of returns the interval covered by e.
func Of(e model.Event) Interval {
	return Interval{Start: e.StartTime, End: e.EndTime}
}

// Result holds the outcome of an overlap check.
type Result struct {
	HasOverlap  bool
	Overlapping []model.Event
}

// Check returns every event in existing whose [start, end) slot collides
// with candidate, in input order. The event whose ID equals excludeID is
// ignored, so an edited event never conflicts with its stored self; an
// empty excludeID excludes nothing.
//
// Touching slots (one ends when the other starts) do not collide. Events
// with unparsable times are ignored, and an unparsable candidate collides
// with nothing.
func Check(candidate Interval, existing []model.Event, excludeID string) Result {
	start, err := timecalc.ParseClock(candidate.Start)
	if err != nil {
		return Result{}
	}
	end, err := timecalc.ParseClock(candidate.End)
	if err != nil {
		return Result{}
	}

	var hits []model.Event
	for _, e := range existing {
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		es, ee, err := e.Clock()
		if err != nil {
			continue
		}
		if Collides(start, end, es, ee) {
			hits = append(hits, e)
		}
	}
	return Result{HasOverlap: len(hits) > 0, Overlapping: hits}
}

// Collides applies the slot collision rule to minute values: the candidate
// [cs, ce) starts inside, ends inside, or encloses the existing [es, ee).
func Collides(cs, ce, es, ee int) bool {
	startsInside := cs >= es && cs < ee
	endsInside := ce > es && ce <= ee
	encloses := cs <= es && ce >= ee
	return startsInside || endsInside || encloses
}
