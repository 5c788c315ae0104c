package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"waifu-calendar/internal/report"
)

func newICSCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "ics <username>",
		Short: "Export the birthdays as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := opts.now()
			cal, err := buildCalendar(cmd, opts, args[0], now, -1)
			if err != nil {
				return err
			}

			body, err := report.ExportICS(cal.Occurrences(), now)
			if err != nil {
				return fmt.Errorf("export calendar: %w", err)
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil { // #nosec G306 -- calendar files are meant to be shared
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d birthdays to %s\n", len(cal.Occurrences()), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "birthdays.ics", `output file ("-" for stdout)`)
	return cmd
}
