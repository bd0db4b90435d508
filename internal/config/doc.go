// Package config defines the settings shared by the orientation-lock
// binaries and provides helpers to load, validate and save them in YAML.
//
// Validate fills in defaults, so a Config returned by Load is ready to use.
package config
