package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"phyboot/internal/image"
)

func fingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <file>",
		Short: "Print image name, size and fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := image.Inspect(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\nSize: %d\nFingerprint: %s\n", info.Name, info.Size, info.Fingerprint)
			return nil
		},
	}
	return cmd
}
