package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/core/config"
	"github.com/abdul-hamid-achik/hitreq/packages/core/dispatch"
	"github.com/abdul-hamid-achik/hitreq/packages/core/handlers"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	httpclient "github.com/abdul-hamid-achik/hitreq/packages/http"
)

// Outcome classifies a finished execution
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeAborted Outcome = "aborted"
	OutcomeFailed  Outcome = "failed"
)

// Entry describes one finished execution
type Entry struct {
	Endpoint  string
	Method    string
	URL       string
	Status    int
	ElapsedMs int64
	Outcome   Outcome
	At        time.Time
}

// Recorder receives an entry for every execution that reaches a terminal
// state. Recording failures are logged and never affect the result.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Engine turns endpoint declarations into executions. It owns the
// dispatcher, so one Engine is shared by every request of an application.
type Engine struct {
	cfg        *config.Config
	logger     *slog.Logger
	sender     dispatch.Sender
	dispatcher *dispatch.Dispatcher
	registry   *handlers.Registry
	handlers   *handlers.Set
	decoder    handlers.Decoder
	recorder   Recorder
}

// Option configures an Engine
type Option func(*Engine)

// WithConfig sets the configuration. The engine never reloads it.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSender replaces the HTTP transport
func WithSender(s dispatch.Sender) Option {
	return func(e *Engine) {
		e.sender = s
	}
}

// WithRegistry sets the registry configured handler names resolve against
func WithRegistry(r *handlers.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithHandlers injects the default handler set directly, bypassing the
// registry and configured names
func WithHandlers(s handlers.Set) Option {
	return func(e *Engine) {
		e.handlers = &s
	}
}

// WithDecoder replaces the JSON decoder used by the built-in parse handler
func WithDecoder(d handlers.Decoder) Option {
	return func(e *Engine) {
		e.decoder = d
	}
}

// WithRecorder records every execution
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// New builds an engine and starts its dispatcher
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:    config.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if e.handlers == nil {
		if e.registry == nil {
			e.registry = handlers.NewRegistry()
		}
		names := make(map[handlers.Slot]string)
		for slot, name := range e.cfg.Handlers.Slots() {
			names[handlers.Slot(slot)] = name
		}
		set, err := e.registry.Resolve(names, handlers.Options{
			StrictURL: e.cfg.GetStrictURLTemplate(),
			Decoder:   e.decoder,
			Logger:    e.logger,
		})
		if err != nil {
			return nil, err
		}
		e.handlers = &set
	}

	if e.sender == nil {
		e.sender = httpclient.NewClient(
			httpclient.WithConnectTimeout(e.cfg.ConnectTimeoutDuration()),
			httpclient.WithSocketTimeout(e.cfg.SocketTimeoutDuration()),
			httpclient.WithFollowRedirects(e.cfg.GetFollowRedirects()),
			httpclient.WithMaxRedirects(e.cfg.MaxRedirects),
		)
	}

	d, err := dispatch.New(poolConfig(e.cfg), e.sender, dispatch.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.dispatcher = d
	return e, nil
}

func poolConfig(cfg *config.Config) dispatch.Config {
	pc := dispatch.DefaultConfig()
	if cfg.Pool.CoreSize > 0 {
		pc.CoreSize = cfg.Pool.CoreSize
	}
	if cfg.Pool.MaxSize > 0 {
		pc.MaxSize = cfg.Pool.MaxSize
	}
	if pc.CoreSize > pc.MaxSize {
		// Validate rejects an explicit core above an explicit max
		if cfg.Pool.MaxSize > 0 {
			pc.CoreSize = pc.MaxSize
		} else {
			pc.MaxSize = pc.CoreSize
		}
	}
	if cfg.Pool.QueueCapacity > 0 {
		pc.QueueCapacity = cfg.Pool.QueueCapacity
	}
	if cfg.Pool.KeepAliveSeconds > 0 {
		pc.KeepAlive = cfg.KeepAliveDuration()
	}
	return pc
}

// Config returns the engine configuration
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Stats returns the dispatcher counters
func (e *Engine) Stats() dispatch.Stats {
	return e.dispatcher.Stats()
}

// Close stops the dispatcher after in-flight work finishes. Executions
// started afterwards return a dispatch failure result.
func (e *Engine) Close() {
	e.dispatcher.Close()
}

// Do executes an endpoint once with the given inputs
func (e *Engine) Do(ctx context.Context, ep *request.Endpoint, inputs map[string]any) (*request.Result, error) {
	r := e.NewRequest(ep)
	for k, v := range inputs {
		r.SetInput(k, v)
	}
	return r.Execute(ctx)
}

func (e *Engine) record(ctx context.Context, rc *request.Context, res *request.Result, outcome Outcome) {
	if e.recorder == nil {
		return
	}
	entry := Entry{
		Endpoint:  rc.Name,
		Method:    rc.Method,
		URL:       rc.URL,
		Status:    res.Status,
		ElapsedMs: res.ElapsedMs,
		Outcome:   outcome,
		At:        time.Now(),
	}
	if err := e.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		e.logger.Warn("failed to record execution", "endpoint", rc.Name, "error", err)
	}
}
