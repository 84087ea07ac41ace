// Package cmd implements the hitreq CLI commands using Cobra.
//
// Available commands:
//   - get, post: Send a one-off request
//   - call: Execute or list endpoints declared in a YAML file
//   - bench: Repeat a request and report latency percentiles
//   - history: Show executions recorded in the SQLite history
//   - version: Show hitreq version information
//
// Exit codes distinguish validation aborts, dispatch failures, config
// errors and usage errors.
package cmd
