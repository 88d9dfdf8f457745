package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-calendar/internal/model"
)

var (
	editTitle       string
	editStart       string
	editEnd         string
	editDescription string
	editColor       string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change an existing event",
	Long: `Change fields of an existing event. Only the flags given are changed.
The event stays on its day; overlap is checked against the other events
of that day.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editStart, "start", "", "New start time (HH:MM)")
	editCmd.Flags().StringVar(&editEnd, "end", "", "New end time (HH:MM)")
	editCmd.Flags().StringVar(&editDescription, "description", "", "New description (empty clears it)")
	editCmd.Flags().StringVar(&editColor, "color", "", "New color")
}

func runEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("title") && !flags.Changed("start") && !flags.Changed("end") &&
		!flags.Changed("description") && !flags.Changed("color") {
		fail(exitUser, errors.New("nothing to change: pass at least one of --title, --start, --end, --description, --color"))
	}

	ctx := context.Background()
	a := openApp(ctx)

	updated, err := a.svc.Edit(ctx, args[0], func(e *model.Event) {
		if flags.Changed("title") {
			e.Title = editTitle
		}
		if flags.Changed("start") {
			e.StartTime = editStart
		}
		if flags.Changed("end") {
			e.EndTime = editEnd
		}
		if flags.Changed("description") {
			e.Description = editDescription
		}
		if flags.Changed("color") {
			e.Color = model.ParseColor(editColor)
		}
	})
	if err != nil {
		fail(exitCodeFor(err), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated %q, %s\n", updated.Title, updated.TimeRange())
	return nil
}
