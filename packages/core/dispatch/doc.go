// Package dispatch decouples request submission from network I/O.
//
// A Dispatcher owns a bounded worker pool shaped like a classic thread pool:
// core workers start on demand, work then queues up to a fixed capacity,
// extra workers start up to a maximum, and once all of that is saturated the
// submitting goroutine runs the work itself. Submit returns an opaque token;
// Await exchanges it exactly once for the result.
package dispatch
