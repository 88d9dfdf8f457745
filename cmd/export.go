package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-calendar/internal/export"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

var (
	exportMonth  string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one month of events",
	Long: `Export every event of a month, ordered by start time.
By default the file is written to the current directory as
"calendar-events-<Month> <Year>.<format>"; use --out - for stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month to export (YYYY-MM); defaults to the current month")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, ics")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", `Output file; "-" writes to stdout`)
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	year, month := monthFlag(exportMonth, now)
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		fail(exitUser, err)
	}

	a := openApp(context.Background())
	snap := a.svc.Snapshot()

	data, err := export.Render(snap, year, month, format, now)
	if err != nil {
		fail(exitStorage, err)
	}

	if exportOut == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	path := exportOut
	if path == "" {
		path = export.FileName(year, month, format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail(exitStorage, fmt.Errorf("writing export: %w", err))
	}

	n := len(export.Month(snap, year, month))
	a.log.Debug("export written", "path", path, "content_type", format.MIMEType(), "events", n)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events of %s to %s\n", n, timecalc.MonthLabel(year, month), path)
	return nil
}
