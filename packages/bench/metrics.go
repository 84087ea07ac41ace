package bench

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
)

const maxLatencyUs = 60_000_000

// Metrics collects latency and outcome counts across executions
type Metrics struct {
	mu sync.Mutex

	total   atomic.Int64
	ok      atomic.Int64
	aborted atomic.Int64
	failed  atomic.Int64

	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram
	statuses  map[int]int64

	startTime time.Time
	endTime   time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		// Histogram: 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(1, maxLatencyUs, 3),
		statuses:  make(map[int]int64),
	}
}

// Start marks the beginning of the run
func (m *Metrics) Start() {
	m.startTime = time.Now()
}

// Stop marks the end of the run
func (m *Metrics) Stop() {
	m.endTime = time.Now()
}

// Record records one finished execution
func (m *Metrics) Record(outcome engine.Outcome, status int, duration time.Duration) {
	m.total.Add(1)
	switch outcome {
	case engine.OutcomeAborted:
		m.aborted.Add(1)
	case engine.OutcomeFailed:
		m.failed.Add(1)
	default:
		m.ok.Add(1)
	}

	latencyUs := duration.Microseconds()
	if latencyUs < 1 {
		latencyUs = 1
	}
	if latencyUs > maxLatencyUs {
		latencyUs = maxLatencyUs
	}

	m.mu.Lock()
	_ = m.histogram.RecordValue(latencyUs)
	m.statuses[status]++
	m.mu.Unlock()
}

// Summary is the final report of a run
type Summary struct {
	Endpoint string
	Duration time.Duration
	Total    int64
	OK       int64
	Aborted  int64
	Failed   int64
	Statuses map[int]int64

	RPS       float64
	ErrorRate float64

	// Latency percentiles
	Min  time.Duration
	Mean time.Duration
	P50  time.Duration
	P90  time.Duration
	P95  time.Duration
	P99  time.Duration
	Max  time.Duration

	CallerRuns int64
	PeakQueued int
}

func (m *Metrics) Summary() *Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := m.endTime.Sub(m.startTime)
	if m.endTime.IsZero() {
		duration = time.Since(m.startTime)
	}

	total := m.total.Load()
	s := &Summary{
		Duration: duration,
		Total:    total,
		OK:       m.ok.Load(),
		Aborted:  m.aborted.Load(),
		Failed:   m.failed.Load(),
		Statuses: make(map[int]int64, len(m.statuses)),
	}
	for k, v := range m.statuses {
		s.Statuses[k] = v
	}
	if duration.Seconds() > 0 {
		s.RPS = float64(total) / duration.Seconds()
	}
	if total > 0 {
		s.ErrorRate = float64(s.Aborted+s.Failed) / float64(total)
	}
	if total > 0 {
		us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
		s.Min = us(m.histogram.Min())
		s.Mean = us(int64(m.histogram.Mean()))
		s.P50 = us(m.histogram.ValueAtQuantile(50))
		s.P90 = us(m.histogram.ValueAtQuantile(90))
		s.P95 = us(m.histogram.ValueAtQuantile(95))
		s.P99 = us(m.histogram.ValueAtQuantile(99))
		s.Max = us(m.histogram.Max())
	}
	return s
}
