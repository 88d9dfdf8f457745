package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-calendar/internal/calendar"
	"github.com/Tiliavir/trivial-calendar/internal/ics"
)

var (
	importDryRun bool
	importTZ     string
)

var importCmd = &cobra.Command{
	Use:   "import <file.ics>",
	Short: "Import timed single-day events from an iCalendar file",
	Long: `Import events from an .ics file. All-day, recurring, cancelled and
multi-day events are skipped. Events are matched by UID, so importing the
same file twice does not duplicate anything. Events that overlap an
existing event on their day are rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Print planned operations without writing")
	importCmd.Flags().StringVar(&importTZ, "timezone", "", "IANA timezone to place events in (default local)")
}

func runImport(cmd *cobra.Command, args []string) error {
	loc, err := loadLocation(importTZ)
	if err != nil {
		fail(exitUser, err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		fail(exitUser, err)
	}
	defer f.Close()

	placed, skipped, err := ics.Parse(f, loc)
	if err != nil {
		fail(exitUser, err)
	}

	ctx := context.Background()
	a := openApp(ctx)
	for _, s := range skipped {
		a.log.Info("ics event skipped", "uid", s.UID, "reason", s.Reason)
	}

	res, err := a.svc.Import(ctx, placed, importDryRun)
	printImportResult(cmd.OutOrStdout(), res, len(skipped), importDryRun)
	if err != nil {
		fail(exitStorage, err)
	}
	return nil
}

// printImportResult prints rejected events followed by a summary.
func printImportResult(w io.Writer, res calendar.ImportResult, filtered int, dryRun bool) {
	for _, r := range res.Rejected {
		fmt.Fprintf(w, "  ! Rejected: %s on %s: %v\n", r.Placement.Event.Title, r.Placement.Event.Date, r.Err)
	}
	if len(res.Rejected) > 0 {
		fmt.Fprintln(w)
	}

	title := "Summary:"
	if dryRun {
		title = "Summary [dry-run]:"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "  %d imported\n", res.Imported)
	fmt.Fprintf(w, "  %d updated\n", res.Updated)
	fmt.Fprintf(w, "  %d unchanged\n", res.Unchanged)
	fmt.Fprintf(w, "  %d rejected\n", res.Skipped)
	fmt.Fprintf(w, "  %d not importable\n", filtered)
}
