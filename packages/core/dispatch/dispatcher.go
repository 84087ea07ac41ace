package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/google/uuid"
)

const (
	// DefaultCoreSize is the number of workers kept alive while idle
	DefaultCoreSize = 4
	// DefaultMaxSize is the maximum number of workers
	DefaultMaxSize = 16
	// DefaultQueueCapacity is the bounded queue length
	DefaultQueueCapacity = 64
	// DefaultKeepAlive is how long a worker above the core size idles before exiting
	DefaultKeepAlive = 60 * time.Second
)

// ErrClosed is returned by Submit after Close
var ErrClosed = errors.New("dispatcher closed")

// Sender performs the actual network call for a context
type Sender interface {
	Send(ctx context.Context, c *request.Context) (*request.Result, error)
}

// SenderFunc adapts a function to a Sender
type SenderFunc func(ctx context.Context, c *request.Context) (*request.Result, error)

func (f SenderFunc) Send(ctx context.Context, c *request.Context) (*request.Result, error) {
	return f(ctx, c)
}

// Config fixes the pool shape at construction
type Config struct {
	CoreSize      int
	MaxSize       int
	QueueCapacity int
	KeepAlive     time.Duration
}

// DefaultConfig returns the default pool shape
func DefaultConfig() Config {
	return Config{
		CoreSize:      DefaultCoreSize,
		MaxSize:       DefaultMaxSize,
		QueueCapacity: DefaultQueueCapacity,
		KeepAlive:     DefaultKeepAlive,
	}
}

// Validate checks the pool shape
func (c Config) Validate() error {
	if c.CoreSize < 0 {
		return fmt.Errorf("core size cannot be negative")
	}
	if c.MaxSize < 1 {
		return fmt.Errorf("max size must be at least 1")
	}
	if c.CoreSize > c.MaxSize {
		return fmt.Errorf("core size %d exceeds max size %d", c.CoreSize, c.MaxSize)
	}
	if c.QueueCapacity < 0 {
		return fmt.Errorf("queue capacity cannot be negative")
	}
	if c.KeepAlive <= 0 {
		return fmt.Errorf("keep-alive must be positive")
	}
	return nil
}

type job struct {
	ctx    context.Context
	rc     *request.Context
	future *future
}

type future struct {
	done   chan struct{}
	result *request.Result
	err    error
}

// Dispatcher runs network calls on a bounded worker pool. Submissions
// return a token immediately; Await blocks for the matching result. When
// the queue is full and every worker is busy the submitting goroutine runs
// the work itself.
type Dispatcher struct {
	cfg    Config
	sender Sender
	logger *slog.Logger

	queue   chan *job
	pending sync.Map // token -> *future

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	workers atomic.Int32

	submitted  atomic.Int64
	completed  atomic.Int64
	failed     atomic.Int64
	callerRuns atomic.Int64
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a dispatcher. The configuration cannot change afterwards.
func New(cfg Config, sender Sender, opts ...Option) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dispatcher config: %w", err)
	}
	if sender == nil {
		return nil, fmt.Errorf("invalid dispatcher config: nil sender")
	}
	d := &Dispatcher{
		cfg:    cfg,
		sender: sender,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		queue:  make(chan *job, cfg.QueueCapacity),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns the pool shape
func (d *Dispatcher) Config() Config {
	return d.cfg
}

// Submit schedules the network call for c and returns its correlation
// token. The work is detached from ctx cancellation: once dispatched it
// runs to completion.
func (d *Dispatcher) Submit(ctx context.Context, c *request.Context) (string, error) {
	token := uuid.NewString()
	j := &job{
		ctx:    context.WithoutCancel(ctx),
		rc:     c,
		future: &future{done: make(chan struct{})},
	}

	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return "", ErrClosed
	}
	d.pending.Store(token, j.future)
	d.submitted.Add(1)
	runHere := !d.schedule(j)
	d.mu.RUnlock()

	if runHere {
		d.callerRuns.Add(1)
		d.logger.Debug("queue saturated, running on caller", "token", token, "url", c.URL)
		d.run(j)
	}
	return token, nil
}

// schedule places a job with a worker or in the queue. It returns false when
// the pool is saturated. Callers hold d.mu read-locked.
func (d *Dispatcher) schedule(j *job) bool {
	if d.startWorker(int32(d.cfg.CoreSize), j) {
		return true
	}
	select {
	case d.queue <- j:
		d.ensureWorker()
		return true
	default:
	}
	return d.startWorker(int32(d.cfg.MaxSize), j)
}

// startWorker starts a worker running first if fewer than limit are alive
func (d *Dispatcher) startWorker(limit int32, first *job) bool {
	for {
		n := d.workers.Load()
		if n >= limit {
			return false
		}
		if d.workers.CompareAndSwap(n, n+1) {
			break
		}
	}
	d.wg.Add(1)
	go d.work(first)
	return true
}

func (d *Dispatcher) work(first *job) {
	defer d.wg.Done()

	if first != nil {
		d.run(first)
	}

	idle := time.NewTimer(d.cfg.KeepAlive)
	defer idle.Stop()

	for {
		select {
		case j, ok := <-d.queue:
			if !ok {
				d.workers.Add(-1)
				return
			}
			d.run(j)
		case <-idle.C:
			if d.retire() {
				return
			}
		}
		idle.Reset(d.cfg.KeepAlive)
	}
}

// retire lets an idle worker above the core size exit
func (d *Dispatcher) retire() bool {
	for {
		n := d.workers.Load()
		if n <= int32(d.cfg.CoreSize) || len(d.queue) > 0 {
			return false
		}
		if d.workers.CompareAndSwap(n, n-1) {
			// a job queued after the length check may have seen this worker alive
			d.ensureWorker()
			return true
		}
	}
}

// ensureWorker starts a worker when work is queued and none is alive. With a
// zero core size the pool can otherwise drain to no workers.
func (d *Dispatcher) ensureWorker() {
	if len(d.queue) > 0 {
		d.startWorker(1, nil)
	}
}

func (d *Dispatcher) run(j *job) {
	f := j.future
	defer close(f.done)
	defer func() {
		if rec := recover(); rec != nil {
			f.result = nil
			f.err = fmt.Errorf("dispatched request panicked: %v", rec)
		}
		if f.err != nil {
			d.failed.Add(1)
		} else {
			d.completed.Add(1)
		}
	}()

	f.result, f.err = d.sender.Send(j.ctx, j.rc)
	if f.err == nil && f.result == nil {
		f.err = errors.New("sender returned no result")
	}
}

// Await blocks until the work for token completes or ctx is done. Every
// failure is returned as a synthesized result, never as an error. The token
// is forgotten on return, so a second Await for it reports an unknown token.
func (d *Dispatcher) Await(ctx context.Context, token string) *request.Result {
	v, ok := d.pending.Load(token)
	if !ok {
		return request.Failure(fmt.Sprintf("unknown dispatch token %q", token))
	}
	defer d.pending.Delete(token)
	f := v.(*future)

	select {
	case <-f.done:
	case <-ctx.Done():
		d.logger.Warn("gave up waiting for dispatched request", "token", token, "error", ctx.Err())
		return request.Failure(fmt.Sprintf("waiting for result: %v", ctx.Err()))
	}

	if f.err != nil {
		d.logger.Debug("dispatched request failed", "token", token, "error", f.err)
		return request.Failure(f.err.Error())
	}
	return f.result
}

// Pending reports whether a token is still awaiting collection
func (d *Dispatcher) Pending(token string) bool {
	_, ok := d.pending.Load(token)
	return ok
}

// Close stops accepting work, lets queued work finish and waits for the
// workers to exit
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

// Stats is a point-in-time view of dispatcher counters
type Stats struct {
	Submitted  int64
	Completed  int64
	Failed     int64
	CallerRuns int64
	Workers    int
	Queued     int
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Submitted:  d.submitted.Load(),
		Completed:  d.completed.Load(),
		Failed:     d.failed.Load(),
		CallerRuns: d.callerRuns.Load(),
		Workers:    int(d.workers.Load()),
		Queued:     len(d.queue),
	}
}
