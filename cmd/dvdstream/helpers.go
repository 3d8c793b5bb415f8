package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dvdstream/internal/config"
	"dvdstream/internal/disc"
	"dvdstream/internal/logging"
	"dvdstream/internal/scancache"
	"dvdstream/internal/stream"
)

// resolvedLocator carries both views of a locator: the directory path the
// disc backend reads and the raw device node when one is involved.
type resolvedLocator struct {
	display string
	path    string
	device  string
}

// resolveLocator normalizes the user-supplied locator, falling back to the
// configured optical drive, and maps device nodes to their mount points.
func resolveLocator(locator string, cfg *config.Config) (resolvedLocator, error) {
	trimmed := strings.TrimSpace(locator)
	if trimmed == "" && cfg != nil {
		trimmed = cfg.Source.OpticalDrive
	}
	if trimmed == "" {
		return resolvedLocator{}, fmt.Errorf("no disc locator given and no optical drive configured")
	}

	normalized := disc.NormalizeLocator(trimmed)
	resolved := resolvedLocator{
		display: normalized,
		device:  disc.ExtractDevicePath(normalized),
	}

	if resolved.device != "" {
		mount, err := disc.ResolveMountPoint(resolved.device)
		if err != nil {
			return resolvedLocator{}, fmt.Errorf("resolve mount point for %s: %w", resolved.device, err)
		}
		resolved.path = mount
		return resolved, nil
	}

	resolved.path = stream.TrimScheme(normalized)
	return resolved, nil
}

// discLabel fetches the disc label for device locators, best effort.
func discLabel(ctx context.Context, loc resolvedLocator) string {
	if loc.device == "" {
		return ""
	}
	label, err := disc.ReadLabel(ctx, loc.device, 10*time.Second)
	if err != nil {
		return ""
	}
	return label
}

// recordScan appends a session to the scan cache when it is enabled.
// Failures are logged and swallowed; history is not worth failing a read.
func recordScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, loc resolvedLocator, info stream.SessionInfo, label string) {
	if cfg == nil || !cfg.ScanCache.Enabled {
		return
	}

	store, err := scancache.Open(cfg.ScanCache.Path)
	if err != nil {
		logger.Warn("scan cache unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	if _, err := store.Record(ctx, scancache.Entry{
		Locator:     loc.display,
		VolumeID:    info.VolumeID,
		Label:       label,
		TitleCount:  info.TitleCount,
		Title:       info.Title,
		TitleSet:    info.TitleSet,
		TotalBlocks: info.TotalBlocks,
		ByteSize:    info.ByteSize,
	}); err != nil {
		logger.Warn("record scan", logging.Error(err))
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for value := n / unit; value >= unit; value /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
