package request

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// ResponseKind is the declared shape of the response body
type ResponseKind int

const (
	ResponseHTML ResponseKind = iota
	ResponseBytes
	ResponseJSON
)

func (k ResponseKind) String() string {
	switch k {
	case ResponseHTML:
		return "html"
	case ResponseBytes:
		return "bytes"
	case ResponseJSON:
		return "json"
	default:
		return fmt.Sprintf("ResponseKind(%d)", int(k))
	}
}

// ParseResponseKind maps "html", "bytes" or "json" to a ResponseKind
func ParseResponseKind(s string) (ResponseKind, error) {
	switch strings.ToLower(s) {
	case "", "html", "text":
		return ResponseHTML, nil
	case "bytes", "byte_array", "binary":
		return ResponseBytes, nil
	case "json":
		return ResponseJSON, nil
	default:
		return ResponseHTML, fmt.Errorf("unknown response kind %q", s)
	}
}

// ErrorMessage is one validation failure
type ErrorMessage struct {
	Parameter string
	Reason    string
}

func (m ErrorMessage) String() string {
	if m.Parameter == "" {
		return m.Reason
	}
	return fmt.Sprintf("parameter %q: %s", m.Parameter, m.Reason)
}

// Context is the mutable state of one execution. It is owned by a single
// execution; after dispatch exactly one worker reads it.
type Context struct {
	Name        string
	Description string

	URL     string
	Method  string
	Charset string

	Parameters []ParameterDefine
	Inputs     map[string]any
	adhoc      []string

	Headers map[string]string
	Cookies map[string]string

	ResponseKind   ResponseKind
	kindSet        bool
	ResultType     reflect.Type
	ResponseSchema string

	Assembled []Param
	Errors    []ErrorMessage
}

func NewContext() *Context {
	return &Context{
		Inputs:  make(map[string]any),
		Headers: make(map[string]string),
		Cookies: make(map[string]string),
	}
}

func (c *Context) AddHeader(name, value string) *Context {
	c.Headers[name] = value
	return c
}

// HasHeader reports whether a header is set, ignoring case
func (c *Context) HasHeader(name string) bool {
	for k := range c.Headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

func (c *Context) AddCookie(name, value string) *Context {
	c.Cookies[name] = value
	return c
}

func (c *Context) ClearCookies() {
	c.Cookies = make(map[string]string)
}

// SetInput sets the runtime value of a declared parameter
func (c *Context) SetInput(name string, value any) *Context {
	c.Inputs[name] = value
	return c
}

// Input returns the runtime value of a parameter
func (c *Context) Input(name string) (any, bool) {
	v, ok := c.Inputs[name]
	return v, ok
}

// AddParameter adds an ad-hoc parameter outside the declaration. Ad-hoc
// parameters keep insertion order; re-adding a name replaces its value.
func (c *Context) AddParameter(name string, value any) *Context {
	if !c.isAdhoc(name) {
		c.adhoc = append(c.adhoc, name)
	}
	c.Inputs[name] = value
	return c
}

func (c *Context) isAdhoc(name string) bool {
	for _, n := range c.adhoc {
		if n == name {
			return true
		}
	}
	return false
}

// AdhocNames returns ad-hoc parameter names that have no declaration, in
// insertion order
func (c *Context) AdhocNames() []string {
	names := make([]string, 0, len(c.adhoc))
	for _, n := range c.adhoc {
		if _, declared := c.Declaration(n); !declared {
			names = append(names, n)
		}
	}
	return names
}

// Declaration looks up a declared parameter by name
func (c *Context) Declaration(name string) (ParameterDefine, bool) {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterDefine{}, false
}

// Declare appends a parameter declaration unless one with the same name exists
func (c *Context) Declare(p ParameterDefine) *Context {
	if _, exists := c.Declaration(p.Name); !exists {
		c.Parameters = append(c.Parameters, p)
	}
	return c
}

func (c *Context) SetResponseKind(k ResponseKind) *Context {
	c.ResponseKind = k
	c.kindSet = true
	return c
}

// ResponseKindSet reports whether the response kind was chosen explicitly
func (c *Context) ResponseKindSet() bool {
	return c.kindSet
}

func (c *Context) AddError(parameter, reason string) {
	c.Errors = append(c.Errors, ErrorMessage{Parameter: parameter, Reason: reason})
}

func (c *Context) HasErrors() bool {
	return len(c.Errors) > 0
}

// ErrorText joins all recorded errors in the order they were recorded
func (c *Context) ErrorText() string {
	parts := make([]string, len(c.Errors))
	for i, e := range c.Errors {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}

// Clone returns an independent copy. Parameter values are copied by
// reference.
func (c *Context) Clone() *Context {
	next := *c
	next.Inputs = maps.Clone(c.Inputs)
	next.Headers = maps.Clone(c.Headers)
	next.Cookies = maps.Clone(c.Cookies)
	next.Parameters = slices.Clone(c.Parameters)
	next.adhoc = slices.Clone(c.adhoc)
	next.Assembled = slices.Clone(c.Assembled)
	next.Errors = slices.Clone(c.Errors)
	return &next
}

// Carry returns a fresh context holding a copy of this context's cookies
func (c *Context) Carry() *Context {
	next := NewContext()
	for k, v := range c.Cookies {
		next.Cookies[k] = v
	}
	return next
}
