package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/wellness-events/internal/lib/eventstatus"
	"github.com/magabrotheeeer/wellness-events/internal/lib/timefields"
)

func newStatusCmd(now func() time.Time) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "status <start YYYY-MM-DDTHH:mm:ssZ> <duration-minutes>",
		Short: "Print the status of an event at a moment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := timefields.ParseCanonical(args[0])
			if err != nil {
				return err
			}
			duration, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", args[1], err)
			}

			moment := now()
			if at != "" {
				if moment, err = timefields.ParseCanonical(at); err != nil {
					return err
				}
			}

			end := eventstatus.EndTime(start, duration)
			fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", eventstatus.Of(start, duration, moment))
			fmt.Fprintf(cmd.OutOrStdout(), "Ends At: %s\n", timefields.FormatCanonical(end))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "moment to evaluate, defaults to now")
	return cmd
}
