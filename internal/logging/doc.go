// Package logging assembles the structured slog loggers shared by the
// dvdstream CLI and the stream source.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes attribute helpers plus a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape as the rest of the tool.
package logging
