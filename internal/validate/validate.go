// Package validate decides whether a submitted event may be booked on a day.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/overlap"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

// Kind classifies a rejected submission.
type Kind string

const (
	EmptyTitle             Kind = "empty_title"
	InvalidTime            Kind = "invalid_time"
	InvertedOrZeroInterval Kind = "inverted_or_zero_interval"
	OverlapConflict        Kind = "overlap_conflict"
)

// ValidationError reports why a submission was rejected. Conflicts is set
// only for OverlapConflict.
type ValidationError struct {
	Kind      Kind
	Detail    string
	Conflicts []model.Event
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyTitle:
		return "event title is required"
	case InvalidTime:
		return e.Detail
	case InvertedOrZeroInterval:
		return "end time must be after start time"
	case OverlapConflict:
		var b strings.Builder
		b.WriteString("this event overlaps with:")
		for _, c := range e.Conflicts {
			fmt.Fprintf(&b, "\n  • %s (%s)", c.Title, c.TimeRange())
		}
		return b.String()
	}
	return string(e.Kind)
}

// IsKind reports whether err is a ValidationError of the given kind.
func IsKind(err error, kind Kind) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Kind == kind
}

// Validate checks candidate against the events already on its day, in
// order: non-blank title, parsable times, start before end, no overlap with
// existing (ignoring editingID). The first failing check wins. The accepted
// event carries its times in canonical zero-padded "HH:MM" form. It has no
// side effects; callers apply the mutation only when err is nil.
func Validate(candidate model.Event, existing []model.Event, editingID string) (model.Event, error) {
	if strings.TrimSpace(candidate.Title) == "" {
		return model.Event{}, &ValidationError{Kind: EmptyTitle}
	}

	start, err := timecalc.ParseClock(candidate.StartTime)
	if err != nil {
		return model.Event{}, &ValidationError{Kind: InvalidTime, Detail: "start " + err.Error()}
	}
	end, err := timecalc.ParseClock(candidate.EndTime)
	if err != nil {
		return model.Event{}, &ValidationError{Kind: InvalidTime, Detail: "end " + err.Error()}
	}
	if start >= end {
		return model.Event{}, &ValidationError{Kind: InvertedOrZeroInterval}
	}

	res := overlap.Check(overlap.Of(candidate), existing, editingID)
	if res.HasOverlap {
		return model.Event{}, &ValidationError{Kind: OverlapConflict, Conflicts: res.Overlapping}
	}
	candidate.StartTime = timecalc.FormatClock(start)
	candidate.EndTime = timecalc.FormatClock(end)
	return candidate, nil
}
