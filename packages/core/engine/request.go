package engine

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/hitreq/packages/charset"
	"github.com/abdul-hamid-achik/hitreq/packages/core/pipeline"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// State is the lifecycle position of an execution
type State int

const (
	StateInit State = iota
	StateContextBuilt
	StatePreProcessing
	StateAborted
	StateDispatched
	StateAwaitingResult
	StatePostProcessing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateContextBuilt:
		return "CONTEXT_BUILT"
	case StatePreProcessing:
		return "PRE_PROCESSING"
	case StateAborted:
		return "ABORTED"
	case StateDispatched:
		return "DISPATCHED"
	case StateAwaitingResult:
		return "AWAITING_RESULT"
	case StatePostProcessing:
		return "POST_PROCESSING"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition follows
func (s State) Terminal() bool {
	return s == StateAborted || s == StateDone
}

// Request is a reusable executable instance of an endpoint. Values set on
// it apply to the next Execute only; cookies persist across executions.
// Executions on one Request are serialised.
type Request struct {
	engine   *Engine
	endpoint *request.Endpoint

	mu    sync.Mutex
	ctx   *request.Context
	pre   []pipeline.PreHandler
	post  []pipeline.PostHandler
	state State
}

// NewRequest returns a request for ep
func (e *Engine) NewRequest(ep *request.Endpoint) *Request {
	return &Request{
		engine:   e,
		endpoint: ep,
		ctx:      request.NewContext(),
	}
}

func (r *Request) SetInput(name string, value any) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.SetInput(name, value)
	return r
}

// AddParameter adds a parameter the endpoint does not declare
func (r *Request) AddParameter(name string, value any) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.AddParameter(name, value)
	return r
}

func (r *Request) AddHeader(name, value string) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.AddHeader(name, value)
	return r
}

func (r *Request) AddCookie(name, value string) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.AddCookie(name, value)
	return r
}

// ClearCookies drops the session cookies
func (r *Request) ClearCookies() *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.ClearCookies()
	return r
}

// Cookies returns a copy of the session cookies
func (r *Request) Cookies() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.ctx.Cookies))
	for k, v := range r.ctx.Cookies {
		out[k] = v
	}
	return out
}

// SetURL overrides the declared URL template
func (r *Request) SetURL(url string) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.URL = url
	return r
}

func (r *Request) SetMethod(method string) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.Method = method
	return r
}

func (r *Request) SetCharset(cs string) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.Charset = cs
	return r
}

func (r *Request) SetResponseKind(k request.ResponseKind) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.SetResponseKind(k)
	return r
}

// SetResultType sets the type a JSON body decodes into
func (r *Request) SetResultType(t reflect.Type) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx.ResultType = t
	return r
}

// AddPreHandler registers a handler for the next execution only
func (r *Request) AddPreHandler(h pipeline.PreHandler) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pre = append(r.pre, h)
	return r
}

// AddPostHandler registers a handler for the next execution only
func (r *Request) AddPostHandler(h pipeline.PostHandler) *Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.post = append(r.post, h)
	return r
}

// OnComplete registers a callback that sees the parsed result of the next
// execution and may replace it
func (r *Request) OnComplete(fn func(*request.Result) *request.Result) *Request {
	return r.AddPostHandler(pipeline.Callback(fn))
}

// State returns the state reached by the last execution
func (r *Request) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Execute runs one execution. Usage faults in the declaration are returned
// as errors before any network activity, leaving the request untouched so
// it can be fixed and retried. Every other outcome, including validation
// and transport failures, is a result.
func (r *Request) Execute(ctx context.Context) (*request.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateInit
	rc := r.ctx.Clone()
	if err := r.build(rc); err != nil {
		return nil, err
	}
	r.ctx = rc
	r.state = StateContextBuilt

	e := r.engine
	p := pipeline.New()
	e.handlers.Register(p)
	for _, h := range r.pre {
		p.RegisterPre(h)
	}
	for _, h := range r.post {
		p.RegisterPost(h)
	}
	defer r.cleanup(rc)
	pre, post := p.Len()
	e.logger.Debug("pipeline built", "endpoint", rc.Name, "pre", pre, "post", post)

	r.state = StatePreProcessing
	if !p.RunPre(rc) {
		r.state = StateAborted
		res := request.Aborted(rc)
		e.logger.Debug("execution aborted", "endpoint", rc.Name, "errors", res.Body)
		e.record(ctx, rc, res, OutcomeAborted)
		return res, nil
	}

	var raw *request.Result
	token, err := e.dispatcher.Submit(ctx, rc)
	r.state = StateDispatched
	if err != nil {
		raw = request.Failure(fmt.Sprintf("dispatch: %v", err))
	} else {
		r.state = StateAwaitingResult
		raw = e.dispatcher.Await(ctx, token)
	}

	for k, v := range raw.Cookies {
		rc.AddCookie(k, v)
	}

	r.state = StatePostProcessing
	res := p.RunPost(rc, raw)
	r.state = StateDone

	outcome := OutcomeOK
	if raw.Failed() {
		outcome = OutcomeFailed
	}
	e.logger.Debug("execution done", "endpoint", rc.Name, "url", rc.URL, "status", res.Status, "elapsed_ms", res.ElapsedMs)
	e.record(ctx, rc, res, outcome)
	return res, nil
}

// build merges caller values over the declaration over configuration into
// rc. On error rc is discarded, so it must be a copy of r.ctx.
func (r *Request) build(rc *request.Context) error {
	ep := r.endpoint
	if err := ep.Validate(); err != nil {
		return err
	}
	cfg := r.engine.cfg

	rc.Name = ep.Name
	rc.Description = ep.Description
	if rc.URL == "" {
		rc.URL = ep.URL
	}
	if rc.URL == "" {
		return fmt.Errorf("%w: %s: no url", request.ErrInvalidEndpoint, ep.Name)
	}
	if rc.Method == "" {
		rc.Method = ep.Method
	}
	if rc.Method == "" {
		rc.Method = http.MethodGet
	}
	rc.Method = strings.ToUpper(rc.Method)
	if rc.Charset == "" {
		rc.Charset = ep.Charset
	}
	if rc.Charset == "" {
		rc.Charset = cfg.Charset
	}
	if rc.Charset == "" {
		rc.Charset = charset.Default
	}
	if !charset.Supported(rc.Charset) {
		return fmt.Errorf("%w: %s: unsupported charset %q", request.ErrInvalidEndpoint, ep.Name, rc.Charset)
	}

	for k, v := range ep.Headers {
		if !rc.HasHeader(k) {
			rc.AddHeader(k, v)
		}
	}
	for k, v := range cfg.Headers {
		if !rc.HasHeader(k) {
			rc.AddHeader(k, v)
		}
	}
	if cfg.UserAgent != "" && !rc.HasHeader("User-Agent") {
		rc.AddHeader("User-Agent", cfg.UserAgent)
	}

	for _, p := range ep.Parameters {
		rc.Declare(p)
	}

	if !rc.ResponseKindSet() {
		rc.ResponseKind = ep.ResponseKind
	}
	if rc.ResultType == nil {
		rc.ResultType = ep.ResultType
	}
	if rc.ResponseSchema == "" {
		rc.ResponseSchema = ep.ResponseSchema
	}
	if rc.ResponseKind == request.ResponseJSON && rc.ResultType == nil {
		return fmt.Errorf("%s: %w", ep.Name, request.ErrMissingResultType)
	}
	return nil
}

// cleanup drops everything scoped to the finished execution. Only cookies
// carry over.
func (r *Request) cleanup(rc *request.Context) {
	r.ctx = rc.Carry()
	r.pre = nil
	r.post = nil
}
