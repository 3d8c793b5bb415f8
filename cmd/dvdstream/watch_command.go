package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dvdstream/internal/disc"
	"dvdstream/internal/monitor"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Wait for a disc to land in the drive",
		Long: `Block until udev reports media in the optical drive, wait for the
drive to settle, and print the device and disc label. Useful ahead of
dump in scripted pipelines.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger := ctx.ensureLogger()

			target := device
			if target == "" && cfg != nil {
				target = cfg.Source.OpticalDrive
			}

			watcher, err := monitor.NewWatcher(target, logger)
			if err != nil {
				return err
			}

			event, err := watcher.WaitForDisc(cmd.Context())
			if err != nil {
				return err
			}

			if _, err := disc.WaitForReady(cmd.Context(), event.Device); err != nil {
				return fmt.Errorf("drive not ready: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Disc inserted: %s\n", event.Device)
			if label, err := disc.ReadLabel(cmd.Context(), event.Device, 10*time.Second); err == nil {
				fmt.Fprintf(out, "Label: %s (%s)\n", label, disc.DisplayTitle(label))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "Drive to watch (default: configured optical drive)")
	return cmd
}
