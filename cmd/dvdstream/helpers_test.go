package main

import (
	"strings"
	"testing"

	"dvdstream/internal/config"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1024 * 1024, "1.0 MiB"},
		{1024000, "1000.0 KiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestResolveLocatorDirectory(t *testing.T) {
	cfg := config.Default()

	loc, err := resolveLocator("/mnt/disc", &cfg)
	if err != nil {
		t.Fatalf("resolveLocator: %v", err)
	}
	if loc.path != "/mnt/disc" {
		t.Errorf("path = %q, want /mnt/disc", loc.path)
	}
	if loc.device != "" {
		t.Errorf("device = %q, want empty", loc.device)
	}
	if loc.display != "/mnt/disc" {
		t.Errorf("display = %q", loc.display)
	}
}

func TestResolveLocatorStripsScheme(t *testing.T) {
	loc, err := resolveLocator("dvd:/mnt/disc", nil)
	if err != nil {
		t.Fatalf("resolveLocator: %v", err)
	}
	if loc.path != "/mnt/disc" {
		t.Errorf("path = %q, want /mnt/disc", loc.path)
	}
	if loc.device != "" {
		t.Errorf("device = %q, want empty", loc.device)
	}
}

func TestResolveLocatorEmpty(t *testing.T) {
	if _, err := resolveLocator("", nil); err == nil {
		t.Fatal("expected error with no locator and no config")
	}

	cfg := config.Default()
	cfg.Source.OpticalDrive = ""
	if _, err := resolveLocator("   ", &cfg); err == nil {
		t.Fatal("expected error with no locator and no configured drive")
	}
}

func TestResolveLocatorFallsBackToConfiguredDrive(t *testing.T) {
	cfg := config.Default()
	cfg.Source.OpticalDrive = "/mnt/fallback"

	loc, err := resolveLocator("", &cfg)
	if err != nil {
		t.Fatalf("resolveLocator: %v", err)
	}
	if loc.path != "/mnt/fallback" {
		t.Errorf("path = %q, want /mnt/fallback", loc.path)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"TITLE", "BLOCKS"},
		[][]string{
			{"1", "500"},
			{"2", "42"},
		},
		2,
	)

	for _, want := range []string{"TITLE", "BLOCKS", "500", "42"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	if len(strings.Split(out, "\n")) < 4 {
		t.Errorf("table output unexpectedly short:\n%s", out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, nil); out != "" {
		t.Errorf("renderTable(nil, nil) = %q, want empty", out)
	}
}
