// Package request holds the data model shared by the hitreq engine.
//
// It provides:
//   - Endpoint declarations (URL template, method, parameters, response shape)
//   - ParameterDefine values describing the declared shape of a parameter
//   - Context, the per-execution state mutated by the handler pipeline
//   - Result, the status/elapsed/body triple every execution produces
package request
