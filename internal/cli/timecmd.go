package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/wellness-events/internal/lib/timefields"
)

func newToUTCCmd() *cobra.Command {
	var tz string
	cmd := &cobra.Command{
		Use:   "to-utc <YYYY-MM-DDTHH:mm>",
		Short: "Convert form local time to the stored UTC instant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := loadLocation(tz)
			if err != nil {
				return err
			}
			instant, err := timefields.ToCanonical(args[0], loc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), instant)
			return nil
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "UTC", "IANA time zone of the local value")
	return cmd
}

func newFromUTCCmd() *cobra.Command {
	var tz string
	cmd := &cobra.Command{
		Use:   "from-utc <YYYY-MM-DDTHH:mm:ssZ>",
		Short: "Convert a stored UTC instant to form local time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := loadLocation(tz)
			if err != nil {
				return err
			}
			local, err := timefields.FromCanonical(args[0], loc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), local)
			return nil
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "UTC", "IANA time zone of the result")
	return cmd
}

func newDecomposeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decompose [YYYY-MM-DDTHH:mm]",
		Short: "Show the date, hour, minute and AM/PM parts of a form value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 1 {
				value = args[0]
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(timefields.Decompose(value))
		},
	}
}
