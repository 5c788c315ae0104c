package main

import (
	"github.com/spf13/cobra"

	"waifu-calendar/internal/report"
)

func newGetCmd(opts *options) *cobra.Command {
	var horizon int

	cmd := &cobra.Command{
		Use:   "get <username>",
		Short: "Print the birthdays of a user's favorite characters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := opts.now()
			cal, err := buildCalendar(cmd, opts, args[0], now, horizon)
			if err != nil {
				return err
			}

			return report.WriteText(cmd.OutOrStdout(), cal.Report, report.TextMeta{
				Username:  cal.Username,
				Now:       now,
				Stale:     cal.Source.IsStale(),
				FetchedAt: cal.Source.FetchedAt,
			})
		},
	}
	cmd.Flags().IntVar(&horizon, "horizon", -1, "upcoming window in days (default from configuration)")
	return cmd
}
