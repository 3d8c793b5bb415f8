package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dvdstream/internal/stream"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var titleFlag int

	cmd := &cobra.Command{
		Use:   "info [locator]",
		Short: "Show what a disc locator resolves to",
		Long: `Open a stream session against the disc and report the resolved facts:
volume ID, usable titles, the selected title and title set, and the stream
size in blocks and bytes. Nothing is read beyond navigation metadata.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger := ctx.ensureLogger()

			var locator string
			if len(args) > 0 {
				locator = args[0]
			}
			loc, err := resolveLocator(locator, cfg)
			if err != nil {
				return err
			}

			opts := stream.DefaultOptions()
			if cfg != nil {
				opts.Title = cfg.Source.Title
			}
			if cmd.Flags().Changed("title") {
				opts.Title = titleFlag
			}

			source := stream.New(opts, logger)
			if err := source.Open(loc.path); err != nil {
				return err
			}
			defer func() { _ = source.Close() }()

			info := source.Info()
			label := discLabel(cmd.Context(), loc)
			recordScan(cmd.Context(), cfg, logger, loc, info, label)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Locator:      %s\n", loc.display)
			if label != "" {
				fmt.Fprintf(out, "Label:        %s\n", label)
			}
			fmt.Fprintf(out, "Volume ID:    %s\n", info.VolumeID)
			fmt.Fprintf(out, "Titles:       %d\n", info.TitleCount)
			fmt.Fprintf(out, "Title:        %d (title set %d)\n", info.Title, info.TitleSet)
			fmt.Fprintf(out, "Chapters:     %d\n", info.Chapters)
			fmt.Fprintf(out, "Cells:        %d\n", info.Cells)
			fmt.Fprintf(out, "Blocks:       %d x %d bytes\n", info.TotalBlocks, stream.BlockSize)
			fmt.Fprintf(out, "Stream size:  %s (%d bytes)\n", formatBytes(info.ByteSize), info.ByteSize)
			return nil
		},
	}

	cmd.Flags().IntVarP(&titleFlag, "title", "t", -1, "Title number to select (default: configured title)")
	return cmd
}
