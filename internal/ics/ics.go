// Package ics reads iCalendar files into day placements for import.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

// Skip reasons.
const (
	ReasonNoUID     = "missing UID"
	ReasonCancelled = "cancelled"
	ReasonAllDay    = "all-day"
	ReasonRecurring = "recurring"
	ReasonMultiDay  = "spans more than one day"
	ReasonNoTimes   = "missing start or end"
)

// Skipped is a VEVENT that has no single-day timed equivalent.
type Skipped struct {
	UID     string
	Summary string
	Reason  string
}

// idSpace namespaces ids derived from foreign UIDs.
var idSpace = uuid.MustParse("6f1c2a8e-3d0b-5e4f-9a71-2b8c4d6e0f13")

// EventID maps an iCalendar UID to an event id. UIDs that are already UUIDs
// are kept so a calendar exported by tcal imports onto its own events.
func EventID(uid string) string {
	if id, err := uuid.Parse(uid); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(idSpace, []byte(uid)).String()
}

// Parse reads all VEVENTs from r. Event times are converted to loc before
// they are split into day key and clock values.
func Parse(r io.Reader, loc *time.Location) ([]model.Placement, []Skipped, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var (
		placed  []model.Placement
		skipped []Skipped
	)
	for _, ve := range cal.Events() {
		p, reason := placementOf(ve, loc)
		if reason != "" {
			skipped = append(skipped, Skipped{
				UID:     propValue(ve, ical.ComponentPropertyUniqueId),
				Summary: propValue(ve, ical.ComponentPropertySummary),
				Reason:  reason,
			})
			continue
		}
		placed = append(placed, p)
	}
	return placed, skipped, nil
}

func placementOf(ve *ical.VEvent, loc *time.Location) (model.Placement, string) {
	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	if uid == "" {
		return model.Placement{}, ReasonNoUID
	}
	if strings.EqualFold(propValue(ve, ical.ComponentPropertyStatus), "CANCELLED") {
		return model.Placement{}, ReasonCancelled
	}
	if isAllDay(ve) {
		return model.Placement{}, ReasonAllDay
	}
	if ve.GetProperty(ical.ComponentPropertyRrule) != nil {
		return model.Placement{}, ReasonRecurring
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return model.Placement{}, ReasonNoTimes
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return model.Placement{}, ReasonNoTimes
	}
	start, end = start.In(loc), end.In(loc)
	if !timecalc.SameDay(start, end) {
		return model.Placement{}, ReasonMultiDay
	}

	e := model.Event{
		ID:          EventID(uid),
		Title:       strings.TrimSpace(propValue(ve, ical.ComponentPropertySummary)),
		StartTime:   timecalc.FormatClock(timecalc.ClockOf(start)),
		EndTime:     timecalc.FormatClock(timecalc.ClockOf(end)),
		Description: propValue(ve, ical.ComponentPropertyDescription),
		Color:       model.ParseColor(propValue(ve, ical.ComponentProperty("COLOR"))),
		Date:        timecalc.ISODate(start),
	}
	return model.Placement{DayKey: timecalc.DayKey(start), Event: e}, ""
}

// isAllDay reports DATE-valued starts: VALUE=DATE or a value without a time part.
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

