package request

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

const (
	// StatusValidationFailed marks a result synthesized after a pre-handler
	// aborted the pipeline. It never collides with a transport status.
	StatusValidationFailed = 999
	// StatusDispatchFailed marks a result synthesized after the dispatched
	// work failed
	StatusDispatchFailed = http.StatusInternalServerError
	// ElapsedUnknown is the elapsed time of a synthesized failure result
	ElapsedUnknown int64 = -1
)

// Result is the outcome of one execution. Body holds raw bytes straight from
// the transport, text after HTML parsing, or a decoded value after JSON
// parsing.
type Result struct {
	Status    int
	ElapsedMs int64
	Headers   map[string]string
	Cookies   map[string]string
	Body      any
}

// Failure builds a result for work that never produced a response
func Failure(detail string) *Result {
	if detail == "" {
		detail = "dispatch failed"
	}
	return &Result{
		Status:    StatusDispatchFailed,
		ElapsedMs: ElapsedUnknown,
		Body:      detail,
	}
}

// Aborted builds the terminal result of a pipeline stopped by a pre-handler
func Aborted(c *Context) *Result {
	return &Result{
		Status:    StatusValidationFailed,
		ElapsedMs: 0,
		Body:      c.ErrorText(),
	}
}

// Failed reports whether the result is synthesized rather than a transport
// response
func (r *Result) Failed() bool {
	return r.Status == StatusValidationFailed || r.ElapsedMs == ElapsedUnknown
}

// Bytes returns the body as raw bytes
func (r *Result) Bytes() []byte {
	switch b := r.Body.(type) {
	case nil:
		return nil
	case []byte:
		return b
	case string:
		return []byte(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return []byte(fmt.Sprintf("%v", b))
		}
		return data
	}
}

// Text returns the body as a string
func (r *Result) Text() string {
	switch b := r.Body.(type) {
	case nil:
		return ""
	case string:
		return b
	case []byte:
		return string(b)
	default:
		return string(r.Bytes())
	}
}

// Path extracts a value from a JSON body using gjson path syntax
func (r *Result) Path(path string) gjson.Result {
	return gjson.GetBytes(r.Bytes(), path)
}

func (r *Result) Header(name string) string {
	for k, v := range r.Headers {
		if http.CanonicalHeaderKey(k) == http.CanonicalHeaderKey(name) {
			return v
		}
	}
	return ""
}

// BodyAs coerces the body to T. A body already of type T is returned as is;
// raw bytes and text are decoded as JSON.
func BodyAs[T any](r *Result) (T, error) {
	var zero T
	if r == nil {
		return zero, fmt.Errorf("nil result")
	}
	if v, ok := r.Body.(T); ok {
		return v, nil
	}
	var out T
	if err := json.Unmarshal(r.Bytes(), &out); err != nil {
		return zero, fmt.Errorf("body is %T, cannot convert to %T: %w", r.Body, zero, err)
	}
	return out, nil
}
