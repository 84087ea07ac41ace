package quick

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/hitreq/packages/core/config"
	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

var defaultEngine = sync.OnceValues(func() (*engine.Engine, error) {
	return engine.New()
})

// FailureError carries a result whose status is reserved for validation or
// dispatch failures
type FailureError struct {
	Result *request.Result
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Result.Status, e.Result.Text())
}

type param struct {
	name  string
	value any
}

type call struct {
	engine   *engine.Engine
	params   []param
	charset  string
	headers  map[string]string
	cookies  map[string]string
	callback func(*request.Result) *request.Result
}

// Option configures one call
type Option func(*call)

// WithEngine runs the call on e instead of the shared default engine
func WithEngine(e *engine.Engine) Option {
	return func(c *call) {
		c.engine = e
	}
}

// WithParams adds parameters, in key order
func WithParams(params map[string]any) Option {
	return func(c *call) {
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			c.params = append(c.params, param{name: name, value: params[name]})
		}
	}
}

// WithParam adds one parameter
func WithParam(name string, value any) Option {
	return func(c *call) {
		c.params = append(c.params, param{name: name, value: value})
	}
}

func WithCharset(cs string) Option {
	return func(c *call) {
		c.charset = cs
	}
}

func WithHeaders(headers map[string]string) Option {
	return func(c *call) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

func WithCookies(cookies map[string]string) Option {
	return func(c *call) {
		for k, v := range cookies {
			c.cookies[k] = v
		}
	}
}

// WithCallback sees the parsed result and may replace it
func WithCallback(fn func(*request.Result) *request.Result) Option {
	return func(c *call) {
		c.callback = fn
	}
}

// Do executes a one-off request. A result with a reserved failure status is
// returned together with a *FailureError.
func Do(ctx context.Context, method, url string, kind request.ResponseKind, resultType reflect.Type, opts ...Option) (*request.Result, error) {
	c := &call{
		headers: make(map[string]string),
		cookies: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}

	e := c.engine
	if e == nil {
		var err error
		if e, err = defaultEngine(); err != nil {
			return nil, err
		}
	}

	ep := &request.Endpoint{
		Name:         method + " " + url,
		URL:          url,
		Method:       method,
		ResponseKind: kind,
		ResultType:   resultType,
	}
	r := e.NewRequest(ep)
	for _, p := range c.params {
		r.AddParameter(p.name, p.value)
	}
	for k, v := range c.headers {
		r.AddHeader(k, v)
	}
	for k, v := range c.cookies {
		r.AddCookie(k, v)
	}
	if c.charset != "" {
		r.SetCharset(c.charset)
	}
	if !hasHeader(c.headers, "User-Agent") && e.Config().UserAgent == "" {
		r.AddHeader("User-Agent", config.DefaultUserAgent)
	}
	if c.callback != nil {
		r.OnComplete(c.callback)
	}

	res, err := r.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return res, &FailureError{Result: res}
	}
	return res, nil
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
