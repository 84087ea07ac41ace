// Package pipeline runs the ordered pre- and post-handlers of one execution.
//
// Pre-handlers are gates: they run stage by stage (defaults, validation,
// assembly, url, user) and any of them can stop the pipeline by returning
// false. Post-handlers are transformations: each receives the previous
// handler's result and returns the next one (parse, then user).
package pipeline
