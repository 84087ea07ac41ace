package bench

import (
	"context"

	"golang.org/x/time/rate"
)

// Scheduler paces submissions and bounds how many executions are in flight
type Scheduler struct {
	limiter *rate.Limiter
	sem     chan struct{} // semaphore for max concurrency
}

// NewScheduler creates a scheduler. A zero rate means unpaced.
func NewScheduler(concurrency int, perSecond float64) *Scheduler {
	s := &Scheduler{}

	if perSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}

	if concurrency < 1 {
		concurrency = 1
	}
	s.sem = make(chan struct{}, concurrency)

	return s
}

// Wait blocks until the rate limiter admits the next execution
func (s *Scheduler) Wait(ctx context.Context) error {
	if s.limiter != nil {
		return s.limiter.Wait(ctx)
	}
	return ctx.Err()
}

// Acquire acquires a slot from the concurrency semaphore
func (s *Scheduler) Acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release releases a slot back to the semaphore
func (s *Scheduler) Release() {
	<-s.sem
}
