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
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

var (
	listDate   string
	listSearch string
	listColor  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the events of a day",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Day to show (YYYY-MM-DD); defaults to today")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Only events whose title or description contains this text")
	listCmd.Flags().StringVar(&listColor, "color", filter.AllColors, "Only events of this color (palette name or value)")
}

func runList(cmd *cobra.Command, args []string) error {
	day := dayFlag("date", listDate, time.Now())
	a := openApp(context.Background())

	events := filter.Apply(a.svc.Day(day), filter.Query{Text: listSearch, Color: listColor})
	renderDay(cmd.OutOrStdout(), day, events)
	return nil
}

// renderDay prints one day's events as an aligned table.
func renderDay(w io.Writer, day time.Time, events []model.Event) {
	fmt.Fprintln(w, timecalc.LongDate(day))
	if len(events) == 0 {
		fmt.Fprintln(w, "No events.")
		return
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{e.TimeRange(), length(e), e.Title, e.Color.Label(), e.ID})
	}
	for i, line := range formatTable(rows) {
		fmt.Fprintln(w, "  "+line)
		if d := firstLine(events[i].Description); d != "" {
			fmt.Fprintln(w, "      "+d)
		}
	}
}

// formatTable pads every column but the last to its widest cell, measured in
// terminal cells.
func formatTable(rows [][]string) []string {
	var widths []int
	for _, r := range rows {
		for i, c := range r {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			if i == len(r)-1 {
				cells[i] = c
				continue
			}
			cells[i] = runewidth.FillRight(c, widths[i])
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
	return lines
}

// length is the event's duration, e.g. "1h 30m"; empty for unparsable times.
func length(e model.Event) string {
	start, end, err := e.Clock()
	if err != nil || end <= start {
		return ""
	}
	return timecalc.FormatDuration(end - start)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
