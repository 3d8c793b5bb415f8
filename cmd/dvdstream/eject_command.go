package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dvdstream/internal/disc"
)

func newEjectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "eject [device]",
		Short: "Eject the disc from the drive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()

			var device string
			if len(args) > 0 {
				device = disc.ExtractDevicePath(args[0])
				if device == "" {
					return fmt.Errorf("%s is not a device path", args[0])
				}
			} else if cfg != nil {
				device = cfg.Source.OpticalDrive
			}

			if err := disc.NewEjector().Eject(cmd.Context(), device); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ejected %s\n", device)
			return nil
		},
	}
}
