package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

var (
	addDate        string
	addStart       string
	addEnd         string
	addDescription string
	addColor       string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add an event to a day",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "Day of the event (YYYY-MM-DD); defaults to today")
	addCmd.Flags().StringVar(&addStart, "start", "", "Start time (HH:MM); defaults to 09:00")
	addCmd.Flags().StringVar(&addEnd, "end", "", "End time (HH:MM); defaults to 10:00")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Optional description")
	addCmd.Flags().StringVar(&addColor, "color", "", "Palette name (blue, green, yellow, red, purple, gray) or any value")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	day := dayFlag("date", addDate, time.Now())
	a := openApp(ctx)

	e := a.svc.NewEvent(day)
	e.Title = args[0]
	e.Description = addDescription
	if addStart != "" {
		e.StartTime = addStart
	}
	if addEnd != "" {
		e.EndTime = addEnd
	}
	if addColor != "" {
		e.Color = model.ParseColor(addColor)
	}

	added, err := a.svc.Create(ctx, day, e)
	if err != nil {
		fail(exitCodeFor(err), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %q on %s, %s (%s)\n",
		added.Title, timecalc.LongDate(day), added.TimeRange(), added.ID)
	return nil
}
