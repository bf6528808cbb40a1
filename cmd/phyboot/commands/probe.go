package commands

import (
	"github.com/spf13/cobra"

	"phyboot/internal/app"
)

// probe: write one nudge and print whatever line comes back.
func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <device> <baud>",
		Short: "Send one newline and print the console's reply",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setTarget(args[0], args[1]); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return app.New(cfg, openTransport).Probe(cmd.Context())
		},
	}
}
