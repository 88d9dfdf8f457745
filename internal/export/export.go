// Package export turns one month of a snapshot into a downloadable document.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

// Format is an export document type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatICS  Format = "ics"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatICS:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or ics)", s)
}

// MIMEType returns the document's content type.
func (f Format) MIMEType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatICS:
		return "text/calendar"
	default:
		return "text/csv"
	}
}

// FileName returns e.g. "calendar-events-March 2026.csv".
func FileName(year int, month time.Month, f Format) string {
	return fmt.Sprintf("calendar-events-%s.%s", timecalc.MonthLabel(year, month), f)
}

// Header is the CSV header row.
var Header = []string{"Title", "Date", "Start Time", "End Time", "Description"}

// Row is one exported event.
type Row struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
}

// Cells returns the row in Header order.
func (r Row) Cells() []string {
	return []string{r.Title, r.Date, r.StartTime, r.EndTime, r.Description}
}

// dated is an event with the calendar day of its bucket.
type dated struct {
	day   time.Time
	event model.Event
}

// collect gathers the month's events ordered by start time. Ties keep
// chronological day order, then bucket order; unparsable start times sort
// last.
func collect(s model.Snapshot, year int, month time.Month) []dated {
	var out []dated
	for _, key := range s.DayKeys() {
		day, err := timecalc.DayFromKey(key)
		if err != nil || day.Year() != year || day.Month() != month {
			continue
		}
		for _, e := range s[key] {
			out = append(out, dated{day: day, event: e})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return startMinutes(out[i].event) < startMinutes(out[j].event)
	})
	return out
}

func startMinutes(e model.Event) int {
	m, err := timecalc.ParseClock(e.StartTime)
	if err != nil {
		return timecalc.MinutesPerDay
	}
	return m
}

// Month projects every event of the given month into rows sorted by start
// time. The date column comes from the day bucket, not the event's
// informational Date field.
func Month(s model.Snapshot, year int, month time.Month) []Row {
	events := collect(s, year, month)
	rows := make([]Row, 0, len(events))
	for _, d := range events {
		rows = append(rows, Row{
			Title:       d.event.Title,
			Date:        timecalc.LongDate(d.day),
			StartTime:   d.event.StartTime,
			EndTime:     d.event.EndTime,
			Description: d.event.Description,
		})
	}
	return rows
}

// CSV serializes rows with the header first. Every cell is wrapped in
// double quotes with embedded quotes doubled; cells are joined by commas
// and rows by "\n".
func CSV(rows []Row) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, csvLine(Header))
	for _, r := range rows {
		lines = append(lines, csvLine(r.Cells()))
	}
	return strings.Join(lines, "\n")
}

func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = csvQuote(c)
	}
	return strings.Join(quoted, ",")
}

// csvQuote always quotes, unlike encoding/csv which quotes only on demand.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// JSON serializes rows as an indented array.
func JSON(rows []Row) ([]byte, error) {
	if rows == nil {
		rows = []Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding rows: %w", err)
	}
	return data, nil
}

// Render produces the month document in format f.
func Render(s model.Snapshot, year int, month time.Month, f Format, now time.Time) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(Month(s, year, month))
	case FormatICS:
		return []byte(ICS(s, year, month, now)), nil
	default:
		return []byte(CSV(Month(s, year, month))), nil
	}
}
