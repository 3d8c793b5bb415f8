package disc

import "strings"

// NormalizeLocator canonicalizes a user-supplied disc locator. Raw /dev
// paths gain a dev: prefix; dvd:/dev: tagged values pass through; everything
// else is treated as a filesystem path.
func NormalizeLocator(locator string) string {
	trimmed := strings.TrimSpace(locator)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "dvd:") || strings.HasPrefix(lower, "dev:") {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "/dev/") {
		return "dev:" + trimmed
	}
	return trimmed
}

// ExtractDevicePath returns the raw /dev path from a locator.
// For "dev:/dev/sr0" returns "/dev/sr0", for "/dev/sr0" returns "/dev/sr0",
// for plain directory paths returns "" (no raw device involved).
func ExtractDevicePath(locator string) string {
	trimmed := strings.TrimSpace(locator)
	if strings.HasPrefix(strings.ToLower(trimmed), "dvd:") {
		trimmed = trimmed[len("dvd:"):]
	}
	if strings.HasPrefix(strings.ToLower(trimmed), "dev:") {
		trimmed = trimmed[len("dev:"):]
	}
	if strings.HasPrefix(trimmed, "/dev/") {
		return trimmed
	}
	return ""
}
