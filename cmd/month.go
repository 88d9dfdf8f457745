package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-calendar/internal/filter"
	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/store"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

// cellWidth is the width of one day column in the month grid.
const cellWidth = 14

// titlesPerCell is how many event titles a day cell shows.
const titlesPerCell = 2

var monthMonth string

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Show a month grid with the events of each day",
	Args:  cobra.NoArgs,
	RunE:  runMonth,
}

func init() {
	monthCmd.Flags().StringVar(&monthMonth, "month", "", "Month to show (YYYY-MM); defaults to the current month")
}

func runMonth(cmd *cobra.Command, args []string) error {
	now := time.Now()
	year, month := monthFlag(monthMonth, now)
	a := openApp(context.Background())

	renderMonth(cmd.OutOrStdout(), a.svc.Snapshot(), year, month, now)
	return nil
}

// renderMonth prints a Sunday-first grid. Each day cell shows the day number,
// the event count and the first titles in start order; today is marked "*".
func renderMonth(w io.Writer, s model.Snapshot, year int, month time.Month, today time.Time) {
	fmt.Fprintln(w, timecalc.MonthLabel(year, month))

	header := make([]string, 7)
	for i := range header {
		header[i] = time.Weekday(i).String()[:3]
	}
	fmt.Fprintln(w, gridLine(header))

	first, last := timecalc.MonthRange(year, month)
	var days []*time.Time
	for i := 0; i < int(first.Weekday()); i++ {
		days = append(days, nil)
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := d
		days = append(days, &day)
	}
	for len(days)%7 != 0 {
		days = append(days, nil)
	}

	total := 0
	for week := 0; week < len(days); week += 7 {
		lines := make([][]string, titlesPerCell+1)
		for i := range lines {
			lines[i] = make([]string, 7)
		}
		for col, d := range days[week : week+7] {
			if d == nil {
				continue
			}
			events := store.EventsForDay(s, timecalc.DayKey(*d))
			filter.SortByStart(events)
			total += len(events)

			label := fmt.Sprintf("%2d", d.Day())
			if timecalc.SameDay(*d, today) {
				label += "*"
			}
			if len(events) > 0 {
				label += fmt.Sprintf(" (%d)", len(events))
			}
			lines[0][col] = label
			for i := 0; i < titlesPerCell && i < len(events); i++ {
				lines[i+1][col] = " " + events[i].Title
			}
		}
		fmt.Fprintln(w, strings.Repeat("-", 7*cellWidth+6))
		for _, l := range lines {
			fmt.Fprintln(w, gridLine(l))
		}
	}
	fmt.Fprintln(w, strings.Repeat("-", 7*cellWidth+6))
	fmt.Fprintf(w, "%d events\n", total)
}

// gridLine lays out seven cells, truncating each to cellWidth.
func gridLine(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = runewidth.FillRight(runewidth.Truncate(c, cellWidth, "…"), cellWidth)
	}
	return strings.TrimRight(strings.Join(out, " "), " ")
}
