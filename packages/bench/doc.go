// Package bench fires repeated executions of one endpoint through an engine
// and reports latency percentiles, outcome counts and how often the
// dispatcher fell back to running work on the submitting goroutine.
package bench
