package commands

import (
	"github.com/spf13/cobra"

	"phyboot/internal/app"
)

func consoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console <device> <baud>",
		Short: "Attach to the serial console without booting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setTarget(args[0], args[1]); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return app.New(cfg, openTransport).Console(cmd.Context())
		},
	}
}
