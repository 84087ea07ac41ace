// Package engine executes endpoint declarations.
//
// Each execution walks a fixed state machine:
//
//	INIT → CONTEXT_BUILT → PRE_PROCESSING → {ABORTED | DISPATCHED} →
//	AWAITING_RESULT → POST_PROCESSING → DONE
//
// The calling goroutine builds the context, runs the pre-handlers, hands the
// context to the dispatcher and blocks for the raw result, then runs the
// post-handlers. Handler failures never escape as errors: a validation
// abort becomes a result with status 999 and a transport failure a result
// with status 500 and elapsed -1. Only faulty declarations return an error.
package engine
