// Package handlers implements the default request lifecycle handlers.
//
// Pre-handlers, in stage order:
//   - Defaults: copy declared default values into absent inputs
//   - Validation: required, type and pattern checks, reporting all failures
//   - Assembly: merge declared and ad-hoc values into transport parameters
//   - URLTemplate: substitute {name} tokens in the URL
//
// Post-handler:
//   - ResultParse: text, raw bytes or a decoded JSON value
//
// A Registry lets configuration pick replacement handlers by name.
package handlers
