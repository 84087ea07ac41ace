package request

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

var (
	// ErrInvalidEndpoint is returned for declarations that cannot be executed
	ErrInvalidEndpoint = errors.New("invalid endpoint declaration")
	// ErrMissingResultType is returned when a JSON response has no target type
	ErrMissingResultType = errors.New("json response requires a result type")
)

var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// Endpoint declares one HTTP endpoint. It is built once and consumed by
// the engine on every execution.
type Endpoint struct {
	Name         string
	Description  string
	URL          string
	Method       string
	Charset      string
	Headers      map[string]string
	Parameters   []ParameterDefine
	ResponseKind ResponseKind
	ResultType   reflect.Type
	// ResponseSchema is an optional JSON schema a JSON body must satisfy
	ResponseSchema string
}

// TypeOf returns the reflect.Type used as a JSON result type
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// MapType is the result type of map-shaped JSON responses
var MapType = TypeOf[map[string]any]()

// Validate checks the declaration itself, independent of runtime values
func (e *Endpoint) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil endpoint", ErrInvalidEndpoint)
	}
	if e.Method != "" && !allowedMethods[strings.ToUpper(e.Method)] {
		return fmt.Errorf("%w: %s: unsupported method %q", ErrInvalidEndpoint, e.Name, e.Method)
	}
	seen := make(map[string]bool, len(e.Parameters))
	for _, p := range e.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: %s: parameter without a name", ErrInvalidEndpoint, e.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %s: duplicate parameter %q", ErrInvalidEndpoint, e.Name, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Get declares a GET endpoint
func Get(name, url string, params ...ParameterDefine) *Endpoint {
	return &Endpoint{Name: name, URL: url, Method: http.MethodGet, Parameters: params}
}

// Post declares a POST endpoint
func Post(name, url string, params ...ParameterDefine) *Endpoint {
	return &Endpoint{Name: name, URL: url, Method: http.MethodPost, Parameters: params}
}

// ExpectJSON sets a JSON response decoded into t
func (e *Endpoint) ExpectJSON(t reflect.Type) *Endpoint {
	e.ResponseKind = ResponseJSON
	e.ResultType = t
	return e
}

// ExpectBytes sets a raw byte response
func (e *Endpoint) ExpectBytes() *Endpoint {
	e.ResponseKind = ResponseBytes
	return e
}

func (e *Endpoint) WithHeader(name, value string) *Endpoint {
	if e.Headers == nil {
		e.Headers = make(map[string]string)
	}
	e.Headers[name] = value
	return e
}
