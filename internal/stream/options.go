package stream

// Options carries the caller-tunable knobs for a Source.
type Options struct {
	// Title is the 1-based title number to stream. -1 (or any value the
	// disc cannot satisfy) resolves to title 1 at open time.
	Title int
}

// DefaultOptions returns options that stream the disc's default title.
func DefaultOptions() Options {
	return Options{Title: -1}
}
