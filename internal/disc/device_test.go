package disc

import "testing"

func TestNormalizeLocator(t *testing.T) {
	tests := []struct {
		locator string
		want    string
	}{
		{"/dev/sr0", "dev:/dev/sr0"},
		{" /dev/sr1 ", "dev:/dev/sr1"},
		{"dev:/dev/sr0", "dev:/dev/sr0"},
		{"dvd:/dev/sr0", "dvd:/dev/sr0"},
		{"DVD:/mnt/disc", "DVD:/mnt/disc"},
		{"/mnt/disc", "/mnt/disc"},
		{"relative/path", "relative/path"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeLocator(tt.locator); got != tt.want {
			t.Errorf("NormalizeLocator(%q) = %q, want %q", tt.locator, got, tt.want)
		}
	}
}

func TestExtractDevicePath(t *testing.T) {
	tests := []struct {
		locator string
		want    string
	}{
		{"dev:/dev/sr0", "/dev/sr0"},
		{"dvd:/dev/sr0", "/dev/sr0"},
		{"dvd:dev:/dev/sr0", "/dev/sr0"},
		{"/dev/sr0", "/dev/sr0"},
		{"DVD:/dev/sr1", "/dev/sr1"},
		{"/mnt/disc", ""},
		{"dvd:/mnt/disc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractDevicePath(tt.locator); got != tt.want {
			t.Errorf("ExtractDevicePath(%q) = %q, want %q", tt.locator, got, tt.want)
		}
	}
}
