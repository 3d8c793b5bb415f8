// Package scancache persists a history of successful disc opens in SQLite.
//
// Each entry records what a disc resolved to: volume label, title count,
// the title and title set that were streamed, and the block/byte sizes.
// The database is a convenience history for `dvdstream cache list`, not an
// archive; schema changes bump the version and users clear the file.
package scancache
