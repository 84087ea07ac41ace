// Package output provides formatters for displaying command results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//
// Both implement Formatter for execution results, bench summaries and
// history listings.
package output
