package disc

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMountNotFound reports that a device has no mounted filesystem.
var ErrMountNotFound = errors.New("optical drive mount point not found")

// ResolveMountPoint returns the mount path for device by scanning
// /proc/mounts, following symlinks on both sides of the comparison.
func ResolveMountPoint(device string) (string, error) {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return "", fmt.Errorf("open mounts: %w", err)
	}
	defer f.Close()

	requested, _ := filepath.EvalSymlinks(device)
	if requested == "" {
		requested = device
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		mountDevice := decodeMountField(fields[0])
		mountPath := decodeMountField(fields[1])

		canonical, _ := filepath.EvalSymlinks(mountDevice)
		if canonical == "" {
			canonical = mountDevice
		}

		if sameDevice(requested, canonical) {
			return mountPath, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan mounts: %w", err)
	}
	return "", ErrMountNotFound
}

// decodeMountField reverses the octal escapes /proc/mounts applies to
// whitespace and backslashes.
func decodeMountField(field string) string {
	replacer := strings.NewReplacer(
		"\\040", " ",
		"\\011", "\t",
		"\\012", "\n",
		"\\134", "\\",
	)
	return replacer.Replace(field)
}

func sameDevice(a, b string) bool {
	if a == b {
		return true
	}
	if strings.HasPrefix(a, "/dev/") && strings.HasPrefix(b, "/dev/") {
		return filepath.Base(a) == filepath.Base(b)
	}
	return false
}
