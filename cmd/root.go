package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-calendar/internal/calendar"
	"github.com/Tiliavir/trivial-calendar/internal/config"
	"github.com/Tiliavir/trivial-calendar/internal/logger"
	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/storage"
	"github.com/Tiliavir/trivial-calendar/internal/storage/s3store"
	"github.com/Tiliavir/trivial-calendar/internal/store"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
	"github.com/Tiliavir/trivial-calendar/internal/validate"
)

// Exit codes.
const (
	exitUser    = 1
	exitStorage = 2
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "tcal",
	Short: "Trivial Calendar – a minimal CLI day planner",
	Long: `tcal keeps timed events per calendar day and refuses to book
overlapping events on the same day. All events are stored as one
human-readable JSON document in ~/.tcal/ (or in S3).`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUser)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.tcal/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(outlookCmd)
}

// app bundles what every command needs.
type app struct {
	cfg config.Config
	log *logger.Logger
	svc *calendar.Service
}

// openApp loads config, logger and the calendar. It exits on failure.
func openApp(ctx context.Context) *app {
	cfg, err := config.Load(configPath)
	if err != nil {
		fail(exitUser, err)
	}
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	log := logger.NewLogger(level)

	p, err := newPersister(ctx, cfg)
	if err != nil {
		fail(exitStorage, err)
	}
	svc, err := calendar.Open(ctx, p, log, calendar.WithDefaultColor(model.ParseColor(cfg.DefaultColor)))
	if err != nil {
		fail(exitStorage, err)
	}
	return &app{cfg: cfg, log: log, svc: svc}
}

func newPersister(ctx context.Context, cfg config.Config) (store.Persister, error) {
	switch cfg.Storage.Backend {
	case config.BackendS3:
		return s3store.NewFromConfig(ctx, s3store.Options{
			Bucket:  cfg.Storage.S3.Bucket,
			Key:     cfg.Storage.S3.Key,
			Region:  cfg.Storage.S3.Region,
			Profile: cfg.Storage.S3.Profile,
		})
	default:
		path, err := cfg.SnapshotPath()
		if err != nil {
			return nil, err
		}
		return storage.NewFile(path), nil
	}
}

// fail prints err and exits with code.
func fail(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}

// exitCodeFor separates rejected input from storage failures.
func exitCodeFor(err error) int {
	var ve *validate.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, store.ErrEventNotFound),
		errors.Is(err, calendar.ErrDuplicateID):
		return exitUser
	}
	return exitStorage
}

// dayFlag parses a --date value; empty means today.
func dayFlag(name, value string, now time.Time) time.Time {
	if value == "" {
		return timecalc.StartOfDay(now)
	}
	d, err := timecalc.ParseDate(value)
	if err != nil {
		fail(exitUser, fmt.Errorf("invalid --%s value: %w", name, err))
	}
	return d
}

// monthFlag parses a --month value; empty means the month of now.
func monthFlag(value string, now time.Time) (int, time.Month) {
	if value == "" {
		return now.Year(), now.Month()
	}
	y, m, err := timecalc.ParseMonth(value)
	if err != nil {
		fail(exitUser, fmt.Errorf("invalid --month value: %w", err))
	}
	return y, m
}

// loadLocation resolves an IANA name; empty means local time.
func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}
