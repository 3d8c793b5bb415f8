package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("exists = true for missing file")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}

	if cfg.Source.Title != -1 {
		t.Errorf("Source.Title = %d, want -1", cfg.Source.Title)
	}
	if cfg.Source.OpticalDrive != "/dev/sr0" {
		t.Errorf("Source.OpticalDrive = %q, want /dev/sr0", cfg.Source.OpticalDrive)
	}
	if !cfg.ScanCache.Enabled {
		t.Error("ScanCache.Enabled = false, want true")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %q/%q, want console/info", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[source]
title = 3
optical_drive = "/dev/sr1"

[scan_cache]
enabled = false
path = "` + filepath.Join(dir, "scans.db") + `"

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("exists = false for present file")
	}

	if cfg.Source.Title != 3 {
		t.Errorf("Source.Title = %d, want 3", cfg.Source.Title)
	}
	if cfg.Source.OpticalDrive != "/dev/sr1" {
		t.Errorf("Source.OpticalDrive = %q, want /dev/sr1", cfg.Source.OpticalDrive)
	}
	if cfg.ScanCache.Enabled {
		t.Error("ScanCache.Enabled = true, want false")
	}
	if cfg.ScanCache.Path != filepath.Join(dir, "scans.db") {
		t.Errorf("ScanCache.Path = %q", cfg.ScanCache.Path)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %q/%q, want json/debug", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "title below range",
			content: "[source]\ntitle = -2\n",
			wantErr: "source.title",
		},
		{
			name:    "title above range",
			content: "[source]\ntitle = 100000\n",
			wantErr: "source.title",
		},
		{
			name:    "bad format",
			content: "[logging]\nformat = \"xml\"\n",
			wantErr: "logging.format",
		},
		{
			name:    "bad level",
			content: "[logging]\nlevel = \"trace\"\n",
			wantErr: "logging.level",
		},
		{
			name:    "malformed toml",
			content: "[source\ntitle = 1\n",
			wantErr: "parse config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := Load(path)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadAcceptsInRangeTitleMiss(t *testing.T) {
	// Title 0 and titles larger than any real disc are resolved to title 1
	// when the disc is opened, so the loader accepts them.
	for _, title := range []string{"0", "500"} {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[source]\ntitle = "+title+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, _, _, err := Load(path); err != nil {
			t.Errorf("Load with title %s: %v", title, err)
		}
	}
}

func TestNormalizeFillsBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[source]
optical_drive = "   "

[logging]
format = "JSON"
level = " INFO "
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.OpticalDrive != "/dev/sr0" {
		t.Errorf("blank optical_drive = %q, want /dev/sr0", cfg.Source.OpticalDrive)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("format = %q, want json", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %q, want info", cfg.Logging.Level)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := ExpandPath("~/x/y")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Errorf("ExpandPath(~/x/y) = %q", got)
	}

	abs, err := ExpandPath("/var/tmp/../tmp/z")
	if err != nil {
		t.Fatal(err)
	}
	if abs != "/var/tmp/z" {
		t.Errorf("ExpandPath cleaned = %q, want /var/tmp/z", abs)
	}
}

func TestCreateSampleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample file not found by Load")
	}

	// The sample documents the defaults.
	want := Default()
	if cfg.Source.Title != want.Source.Title {
		t.Errorf("sample title = %d, want %d", cfg.Source.Title, want.Source.Title)
	}
	if cfg.Source.OpticalDrive != want.Source.OpticalDrive {
		t.Errorf("sample optical_drive = %q, want %q", cfg.Source.OpticalDrive, want.Source.OpticalDrive)
	}
	if cfg.Logging.Format != want.Logging.Format || cfg.Logging.Level != want.Logging.Level {
		t.Errorf("sample logging = %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}
