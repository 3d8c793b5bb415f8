// Package config loads and validates the dvdstream TOML configuration.
//
// Load resolves the config file (explicit path, then the user config dir,
// then a project-local dvdstream.toml), applies defaults for anything left
// unset, expands and normalizes path fields, and validates ranges before the
// rest of the tool sees the values.
package config
