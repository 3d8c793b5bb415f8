package disc

import "testing"

func TestDecodeMountField(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"/media/disc", "/media/disc"},
		{"/media/My\\040Movie", "/media/My Movie"},
		{"/a\\011b", "/a\tb"},
		{"/a\\012b", "/a\nb"},
		{"/a\\134b", "/a\\b"},
	}
	for _, tt := range tests {
		if got := decodeMountField(tt.field); got != tt.want {
			t.Errorf("decodeMountField(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestSameDevice(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"/dev/sr0", "/dev/sr0", true},
		{"/dev/sr0", "/dev/block/sr0", true},
		{"/dev/sr0", "/dev/sr1", false},
		{"/mnt/disc", "/mnt/disc", true},
		{"/mnt/disc", "/dev/sr0", false},
	}
	for _, tt := range tests {
		if got := sameDevice(tt.a, tt.b); got != tt.want {
			t.Errorf("sameDevice(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
