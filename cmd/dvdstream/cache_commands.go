package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dvdstream/internal/scancache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the disc scan history",
		Long: `Inspect and manage the scan history.

Every successful info or dump session records what the disc resolved to:
label, title count, selected title set, and stream size.

Commands:
  list     - List recorded scans, newest first
  clear    - Remove all recorded scans`,
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded disc scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openScanCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Scan history: empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				name := entry.Label
				if name == "" {
					name = entry.VolumeID
				}
				rows = append(rows, []string{
					entry.ScannedAt.Local().Format("2006-01-02 15:04"),
					name,
					entry.Locator,
					fmt.Sprintf("%d/%d", entry.Title, entry.TitleCount),
					strconv.Itoa(entry.TitleSet),
					formatBytes(entry.ByteSize),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Scanned", "Disc", "Locator", "Title", "Title Set", "Size"},
				rows,
				4, 5, 6,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openScanCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d scan(s)\n", removed)
			return nil
		},
	}
}

func openScanCache(ctx *commandContext) (*scancache.Store, error) {
	cfg := ctx.configValue()
	if cfg == nil || !cfg.ScanCache.Enabled {
		return nil, fmt.Errorf("scan cache is disabled; enable [scan_cache] in the configuration")
	}
	return scancache.Open(cfg.ScanCache.Path)
}
