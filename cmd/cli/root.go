package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"waifu-calendar/internal/app"
	"waifu-calendar/internal/config"
	"waifu-calendar/internal/observability/logging"
	calUC "waifu-calendar/internal/usecase/calendar"
	"waifu-calendar/internal/usecase/favorites"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	now        func() time.Time
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithClock(time.Now)
}

func newRootCmdWithClock(now func() time.Time) *cobra.Command {
	opts := &options{now: now}

	root := &cobra.Command{
		Use:   "waifu-calendar",
		Short: "Birthdays of your favorite AniList characters",
		Long: `waifu-calendar looks up the favorite characters of an AniList user and
reports when their birthdays come around next.

Available subcommands:
  get - Print today's, upcoming and future birthdays
  ics - Export the birthdays as an iCalendar (.ics) file`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")

	root.AddCommand(newGetCmd(opts), newICSCmd(opts))
	return root
}

// buildCalendar loads configuration, wires the components and resolves
// username's calendar as of now. horizon < 0 uses the configured horizon.
func buildCalendar(cmd *cobra.Command, opts *options, username string, now time.Time, horizon int) (calUC.Calendar, error) {
	cfg, fallbacks, err := config.Load(opts.configPath)
	if err != nil {
		return calUC.Calendar{}, err
	}

	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: "text", Output: cmd.ErrOrStderr()})
	slog.SetDefault(logger)
	for _, f := range fallbacks {
		logger.Warn("configuration fallback applied", slog.String("field", f.Field), slog.String("detail", f.Warning))
	}

	components, err := app.Build(cfg, logger, nil)
	if err != nil {
		return calUC.Calendar{}, err
	}

	if horizon < 0 {
		horizon = cfg.Report.HorizonDays
	}
	cal, err := components.Calendar.BuildWithHorizon(cmd.Context(), username, now, horizon)
	if err != nil {
		return calUC.Calendar{}, userError(username, err)
	}
	return cal, nil
}

// userError turns lookup failures into messages fit for a terminal.
func userError(username string, err error) error {
	switch {
	case errors.Is(err, favorites.ErrUserNotFound):
		return fmt.Errorf("no AniList user named %q", username)
	case errors.Is(err, favorites.ErrUpstreamUnavailable):
		return fmt.Errorf("AniList is unreachable, try again later: %w", err)
	default:
		return err
	}
}
