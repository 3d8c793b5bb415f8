package stream

import "strings"

// SchemePrefix is the optional locator scheme tag for DVD sources.
const SchemePrefix = "dvd:"

// TrimScheme strips the dvd: scheme tag from a locator, leaving the disc
// path. Locators without the tag pass through unchanged.
func TrimScheme(locator string) string {
	trimmed := strings.TrimSpace(locator)
	if len(trimmed) >= len(SchemePrefix) && strings.EqualFold(trimmed[:len(SchemePrefix)], SchemePrefix) {
		return trimmed[len(SchemePrefix):]
	}
	return trimmed
}
