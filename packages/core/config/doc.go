// Package config handles configuration loading and management for hitreq.
//
// It provides functionality for:
//   - Loading configuration from .hitreq.json or .hitreq.yaml files
//   - Default configuration values
//   - Merging command-line overrides over file values
//
// Configuration is read once at startup and never reloaded.
package config
