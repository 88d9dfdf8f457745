package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-calendar/internal/msgraph"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

var (
	outlookFrom   string
	outlookTo     string
	outlookDate   string
	outlookDryRun bool
	outlookTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import Outlook calendar events",
	Long: `Import timed events from your Outlook calendar via Microsoft Graph.
Cancelled, all-day, private, free and multi-day events are skipped.
Imported events keep a stable id, so repeated imports update them.`,
	Args: cobra.NoArgs,
	RunE: runOutlookImport,
}

func init() {
	outlookImportCmd.Flags().StringVar(&outlookFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookImportCmd.Flags().StringVar(&outlookTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookImportCmd.Flags().StringVar(&outlookDate, "date", "", "Import a specific date (YYYY-MM-DD); default today")
	outlookImportCmd.Flags().BoolVar(&outlookDryRun, "dry-run", false, "Print planned operations without writing")
	outlookImportCmd.Flags().StringVar(&outlookTZ, "timezone", "", "IANA timezone for event times (overrides config)")
	outlookCmd.AddCommand(outlookImportCmd)
}

// importRange resolves --date / --from / --to into [from, to).
func importRange(date, fromFlag, toFlag string, now time.Time) (time.Time, time.Time, error) {
	switch {
	case date != "":
		d, err := timecalc.ParseDate(date)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return d, d.AddDate(0, 0, 1), nil

	case fromFlag != "" || toFlag != "":
		if fromFlag == "" {
			return time.Time{}, time.Time{}, errors.New("--from is required when --to is specified")
		}
		from, err := timecalc.ParseDate(fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to := timecalc.StartOfDay(now)
		if toFlag != "" {
			if to, err = timecalc.ParseDate(toFlag); err != nil {
				return time.Time{}, time.Time{}, err
			}
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, errors.New("--to is before --from")
		}
		return from, to.AddDate(0, 0, 1), nil
	}

	today := timecalc.StartOfDay(now)
	return today, today.AddDate(0, 0, 1), nil
}

func runOutlookImport(cmd *cobra.Command, args []string) error {
	from, to, err := importRange(outlookDate, outlookFrom, outlookTo, time.Now())
	if err != nil {
		fail(exitUser, err)
	}

	ctx := context.Background()
	a := openApp(ctx)

	timezone := a.cfg.Outlook.Timezone
	if outlookTZ != "" {
		timezone = outlookTZ
	}
	loc, err := loadLocation(timezone)
	if err != nil {
		fail(exitUser, err)
	}

	dataDir, err := a.cfg.ResolveDataDir()
	if err != nil {
		fail(exitStorage, err)
	}
	tokenPath := msgraph.TokenPath(dataDir)

	out := cmd.OutOrStdout()
	dryTag := ""
	if outlookDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Importing Outlook events (%s → %s)%s...\n",
		timecalc.ISODate(from), timecalc.ISODate(to.AddDate(0, 0, -1)), dryTag)
	fmt.Fprintln(out)

	auth := msgraph.Auth{
		TenantID:  a.cfg.Outlook.TenantID,
		ClientID:  a.cfg.Outlook.ClientID,
		TokenPath: tokenPath,
		Prompt:    os.Stderr,
		Log:       a.log,
	}
	tok, oauthCfg, err := auth.Login(ctx)
	if err != nil {
		fail(exitUser, fmt.Errorf("authentication failed: %w", err))
	}

	client := msgraph.NewClient(ctx, tok, oauthCfg, tokenPath)
	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		fail(exitUser, fmt.Errorf("failed to fetch calendar events: %w", err))
	}

	placed, skipped := msgraph.ToPlacements(events, loc)
	for _, s := range skipped {
		a.log.Info("outlook event skipped", "subject", s.Event.Subject, "reason", s.Reason)
	}

	res, err := a.svc.Import(ctx, placed, outlookDryRun)
	printImportResult(out, res, len(skipped), outlookDryRun)
	if err != nil {
		fail(exitStorage, err)
	}
	return nil
}
