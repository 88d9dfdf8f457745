package msgraph

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

// Skip reasons.
const (
	ReasonCancelled = "cancelled"
	ReasonAllDay    = "all-day"
	ReasonPrivate   = "private"
	ReasonFree      = "shown as free"
	ReasonNoTimes   = "missing start or end"
	ReasonMultiDay  = "spans more than one day"
)

// Skipped is a Graph event that is not imported.
type Skipped struct {
	Event  CalendarEvent
	Reason string
}

// outlookSpace namespaces event ids derived from Graph ids.
var outlookSpace = uuid.MustParse("0d7e4b52-8a16-5c39-b2f4-71e9a3c8d605")

// EventID maps a Graph event id to a stable tcal event id, so repeated
// imports update the same event.
func EventID(graphID string) string {
	return uuid.NewSHA1(outlookSpace, []byte(graphID)).String()
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix.
func parseGraphTime(dt, tz string) (time.Time, error) {
	// Try RFC3339 first (includes timezone offset).
	if t, err := time.Parse(time.RFC3339, dt); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// buildDescription combines bodyPreview and location.
func buildDescription(event CalendarEvent) string {
	parts := []string{}
	if event.BodyPreview != "" {
		parts = append(parts, event.BodyPreview)
	}
	if event.Location.DisplayName != "" {
		parts = append(parts, event.Location.DisplayName)
	}
	return strings.Join(parts, "\n")
}

// colorOf picks the first Outlook category naming a palette color
// ("Red category" -> Red).
func colorOf(event CalendarEvent) model.Color {
	for _, c := range event.Categories {
		for _, p := range model.Palette {
			if strings.HasPrefix(strings.ToLower(c), strings.ToLower(p.Label)) {
				return p.Value
			}
		}
	}
	return ""
}

// skipReason returns why event should not be imported, or "".
func skipReason(event CalendarEvent) string {
	switch {
	case event.IsCancelled:
		return ReasonCancelled
	case event.IsAllDay:
		return ReasonAllDay
	case event.Sensitivity == "private":
		return ReasonPrivate
	case event.ShowAs == "free":
		return ReasonFree
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return ReasonNoTimes
	}
	return ""
}

// MapEvent converts a Graph event into a placement on its start day in loc.
func MapEvent(event CalendarEvent, loc *time.Location) (model.Placement, error) {
	p, _, err := mapEvent(event, loc)
	return p, err
}

func mapEvent(event CalendarEvent, loc *time.Location) (model.Placement, time.Time, error) {
	start, err := parseGraphTime(event.Start.DateTime, event.Start.TimeZone)
	if err != nil {
		return model.Placement{}, time.Time{}, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, event.End.TimeZone)
	if err != nil {
		return model.Placement{}, time.Time{}, fmt.Errorf("parsing end time: %w", err)
	}
	start, end = start.In(loc), end.In(loc)

	e := model.Event{
		ID:          EventID(event.ID),
		Title:       strings.TrimSpace(event.Subject),
		StartTime:   timecalc.FormatClock(timecalc.ClockOf(start)),
		EndTime:     timecalc.FormatClock(timecalc.ClockOf(end)),
		Description: buildDescription(event),
		Color:       colorOf(event),
		Date:        timecalc.ISODate(start),
	}
	return model.Placement{DayKey: timecalc.DayKey(start), Event: e}, end, nil
}

// ToPlacements maps all importable events. Events that fail to map or that
// cross midnight are reported as skipped.
func ToPlacements(events []CalendarEvent, loc *time.Location) ([]model.Placement, []Skipped) {
	if loc == nil {
		loc = time.Local
	}
	var (
		placed  []model.Placement
		skipped []Skipped
	)
	for _, event := range events {
		if reason := skipReason(event); reason != "" {
			skipped = append(skipped, Skipped{Event: event, Reason: reason})
			continue
		}
		p, end, err := mapEvent(event, loc)
		if err != nil {
			skipped = append(skipped, Skipped{Event: event, Reason: err.Error()})
			continue
		}
		if p.Event.Date != timecalc.ISODate(end) {
			skipped = append(skipped, Skipped{Event: event, Reason: ReasonMultiDay})
			continue
		}
		placed = append(placed, p)
	}
	return placed, skipped
}
