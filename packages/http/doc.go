// Package http sends assembled request contexts over the wire.
//
// It wraps the standard library's http package with:
//   - Separate connection and socket timeouts
//   - Redirect handling
//   - Query, form and multipart parameter encoding in the request charset
//   - Cookie headers from carried cookies and Set-Cookie capture
//
// Response bodies are returned undecoded; decoding is the parse stage's job.
package http
