package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"dvdstream/internal/config"
	"dvdstream/internal/logging"
	"dvdstream/internal/stream"
)

// progressEveryBlocks is how often the dump progress line refreshes (1 MiB).
const progressEveryBlocks = 512

func newDumpCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var titleFlag int

	cmd := &cobra.Command{
		Use:   "dump [locator]",
		Short: "Copy a title's video object stream to a file or stdout",
		Long: `Stream every logical block of the selected title to the output path,
or to stdout when no path is given. Dumping from a physical drive takes a
per-device lock so concurrent dumps cannot interleave reads.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			logger := ctx.ensureLogger().With(
				logging.String(logging.FieldSessionID, uuid.NewString()),
			)

			var locator string
			if len(args) > 0 {
				locator = args[0]
			}
			loc, err := resolveLocator(locator, cfg)
			if err != nil {
				return err
			}

			if loc.device != "" {
				lock := flock.New(deviceLockPath(cfg, loc.device))
				locked, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire device lock: %w", err)
				}
				if !locked {
					return fmt.Errorf("device %s is busy: another dvdstream session holds the lock", loc.device)
				}
				defer func() { _ = lock.Unlock() }()
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

			var out io.Writer = cmd.OutOrStdout()
			if outputPath != "" && outputPath != "-" {
				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer func() { _ = file.Close() }()
				out = file
			}

			showProgress := outputPath != "" && outputPath != "-" &&
				isatty.IsTerminal(os.Stderr.Fd())

			buf := make([]byte, stream.BlockSize)
			var blocks, written int64
			for {
				n, err := source.Read(buf)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				if _, err := out.Write(buf[:n]); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				blocks++
				written += int64(n)
				if showProgress && blocks%progressEveryBlocks == 0 {
					fmt.Fprintf(os.Stderr, "\r%d / %d blocks (%s)",
						blocks, info.TotalBlocks, formatBytes(written))
				}
			}
			if showProgress {
				fmt.Fprintf(os.Stderr, "\r%d / %d blocks (%s)\n",
					blocks, info.TotalBlocks, formatBytes(written))
			}

			logger.Info("dump complete",
				logging.String(logging.FieldDevice, loc.display),
				logging.Int(logging.FieldTitle, info.Title),
				logging.Int64("blocks", blocks),
				logging.Int64("bytes", written),
			)

			label := discLabel(cmd.Context(), loc)
			recordScan(cmd.Context(), cfg, logger, loc, info, label)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVarP(&titleFlag, "title", "t", -1, "Title number to select (default: configured title)")
	return cmd
}

// deviceLockPath places per-device locks beside the logs when a log
// directory is configured, otherwise under the system temp dir.
func deviceLockPath(cfg *config.Config, device string) string {
	dir := os.TempDir()
	if cfg != nil && cfg.Logging.LogDir != "" {
		dir = cfg.Logging.LogDir
	}
	return filepath.Join(dir, "dvdstream-"+filepath.Base(device)+".lock")
}
