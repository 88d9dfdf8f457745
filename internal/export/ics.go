package export

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

// ProductID identifies tcal in exported calendars.
const ProductID = "-//Tiliavir//trivial-calendar//EN"

// ICS renders the month as an iCalendar document, one VEVENT per event in
// start-time order. Events whose times do not parse are left out.
func ICS(s model.Snapshot, year int, month time.Month, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, d := range collect(s, year, month) {
		start, end, err := d.event.Clock()
		if err != nil {
			continue
		}
		ev := cal.AddEvent(d.event.ID)
		ev.SetDtStampTime(now)
		ev.SetStartAt(timecalc.At(d.day, start))
		ev.SetEndAt(timecalc.At(d.day, end))
		ev.SetSummary(d.event.Title)
		if d.event.Description != "" {
			ev.SetDescription(d.event.Description)
		}
		if d.event.Color != "" {
			ev.SetProperty(ical.ComponentProperty("COLOR"), string(d.event.Color))
		}
	}
	return cal.Serialize()
}
