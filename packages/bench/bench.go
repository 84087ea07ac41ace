package bench

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// Config shapes a bench run
type Config struct {
	// Requests is the number of executions. Zero runs until Duration elapses.
	Requests    int
	Duration    time.Duration
	Concurrency int
	// Rate caps executions per second. Zero is unpaced.
	Rate float64
}

func (c Config) Validate() error {
	if c.Requests < 0 || c.Duration < 0 || c.Concurrency < 0 || c.Rate < 0 {
		return fmt.Errorf("bench settings cannot be negative")
	}
	if c.Requests == 0 && c.Duration == 0 {
		return fmt.Errorf("bench needs a request count or a duration")
	}
	return nil
}

// Thresholds fail a run when exceeded. Zero values are not checked.
type Thresholds struct {
	P95       time.Duration
	P99       time.Duration
	ErrorRate float64
}

type ThresholdResult struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// Run fires executions of ep on e and summarises them. Each execution
// gets a fresh request built from inputs. A usage fault in the declaration
// stops the run and is returned.
func Run(ctx context.Context, e *engine.Engine, ep *request.Endpoint, inputs map[string]any, cfg Config) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	sched := NewScheduler(cfg.Concurrency, cfg.Rate)
	metrics := NewMetrics()
	before := e.Stats()

	var (
		wg         sync.WaitGroup
		peakMu     sync.Mutex
		peakQueued int
	)

	metrics.Start()
	for i := 0; cfg.Requests == 0 || i < cfg.Requests; i++ {
		if sched.Wait(ctx) != nil || sched.Acquire(ctx) != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sched.Release()

			start := time.Now()
			// runs are not cancelled mid-flight; the deadline only stops new ones
			res, err := e.Do(context.WithoutCancel(ctx), ep, inputs)
			if err != nil {
				cancel(err)
				return
			}
			metrics.Record(outcomeOf(res), res.Status, time.Since(start))

			if q := e.Stats().Queued; q > 0 {
				peakMu.Lock()
				peakQueued = max(peakQueued, q)
				peakMu.Unlock()
			}
		}()
	}
	wg.Wait()
	metrics.Stop()

	if err := context.Cause(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return nil, err
	}

	s := metrics.Summary()
	s.Endpoint = ep.Name
	s.CallerRuns = e.Stats().CallerRuns - before.CallerRuns
	s.PeakQueued = peakQueued
	return s, nil
}

func outcomeOf(res *request.Result) engine.Outcome {
	switch {
	case res.Status == request.StatusValidationFailed:
		return engine.OutcomeAborted
	case res.ElapsedMs == request.ElapsedUnknown:
		return engine.OutcomeFailed
	default:
		return engine.OutcomeOK
	}
}

// Evaluate checks a summary against thresholds
func Evaluate(s *Summary, t Thresholds) []ThresholdResult {
	var results []ThresholdResult

	if t.P95 > 0 {
		results = append(results, ThresholdResult{
			Name:     "p95",
			Passed:   s.P95 <= t.P95,
			Expected: "<= " + t.P95.String(),
			Actual:   s.P95.String(),
		})
	}

	if t.P99 > 0 {
		results = append(results, ThresholdResult{
			Name:     "p99",
			Passed:   s.P99 <= t.P99,
			Expected: "<= " + t.P99.String(),
			Actual:   s.P99.String(),
		})
	}

	if t.ErrorRate > 0 {
		results = append(results, ThresholdResult{
			Name:     "error rate",
			Passed:   s.ErrorRate <= t.ErrorRate,
			Expected: "<= " + formatPercent(t.ErrorRate),
			Actual:   formatPercent(s.ErrorRate),
		})
	}

	return results
}

func formatPercent(f float64) string {
	return strconv.FormatFloat(f*100, 'f', 2, 64) + "%"
}
