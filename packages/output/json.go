package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/bench"
	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
)

// JSONResult represents one execution result
type JSONResult struct {
	Name      string            `json:"name"`
	Status    int               `json:"status"`
	ElapsedMs int64             `json:"elapsedMs"`
	Failed    bool              `json:"failed,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Cookies   map[string]string `json:"cookies,omitempty"`
	Body      any               `json:"body,omitempty"`
}

// JSONBench represents a bench summary
type JSONBench struct {
	Endpoint   string                  `json:"endpoint"`
	DurationMs int64                   `json:"durationMs"`
	Total      int64                   `json:"total"`
	OK         int64                   `json:"ok"`
	Aborted    int64                   `json:"aborted"`
	Failed     int64                   `json:"failed"`
	Statuses   map[int]int64           `json:"statuses"`
	RPS        float64                 `json:"rps"`
	ErrorRate  float64                 `json:"errorRate"`
	Latency    map[string]float64      `json:"latencyMs"`
	CallerRuns int64                   `json:"callerRuns"`
	PeakQueued int                     `json:"peakQueued"`
	Thresholds []bench.ThresholdResult `json:"thresholds,omitempty"`
}

// JSONEntry represents a history entry
type JSONEntry struct {
	Endpoint  string `json:"endpoint"`
	Method    string `json:"method"`
	URL       string `json:"url"`
	Status    int    `json:"status"`
	ElapsedMs int64  `json:"elapsedMs"`
	Outcome   string `json:"outcome"`
	Time      string `json:"time"`
}

// JSONError represents a command failure
type JSONError struct {
	Error string `json:"error"`
}

// JSONFormatter writes one JSON document per call
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func (f *JSONFormatter) FormatResult(name string, res *request.Result) {
	out := JSONResult{
		Name:      name,
		Status:    res.Status,
		ElapsedMs: res.ElapsedMs,
		Failed:    res.Failed(),
		Headers:   res.Headers,
		Cookies:   res.Cookies,
		Body:      res.Body,
	}
	// raw bodies that are valid JSON are embedded rather than base64 encoded
	if b, ok := res.Body.([]byte); ok {
		if json.Valid(b) {
			out.Body = json.RawMessage(b)
		} else {
			out.Body = string(b)
		}
	}
	f.encode(out)
}

func (f *JSONFormatter) FormatBench(s *bench.Summary, thresholds []bench.ThresholdResult) {
	ms := func(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
	f.encode(JSONBench{
		Endpoint:   s.Endpoint,
		DurationMs: s.Duration.Milliseconds(),
		Total:      s.Total,
		OK:         s.OK,
		Aborted:    s.Aborted,
		Failed:     s.Failed,
		Statuses:   s.Statuses,
		RPS:        s.RPS,
		ErrorRate:  s.ErrorRate,
		Latency: map[string]float64{
			"min":  ms(s.Min),
			"mean": ms(s.Mean),
			"p50":  ms(s.P50),
			"p90":  ms(s.P90),
			"p95":  ms(s.P95),
			"p99":  ms(s.P99),
			"max":  ms(s.Max),
		},
		CallerRuns: s.CallerRuns,
		PeakQueued: s.PeakQueued,
		Thresholds: thresholds,
	})
}

func (f *JSONFormatter) FormatHistory(entries []engine.Entry) {
	out := make([]JSONEntry, len(entries))
	for i, e := range entries {
		out[i] = JSONEntry{
			Endpoint:  e.Endpoint,
			Method:    e.Method,
			URL:       e.URL,
			Status:    e.Status,
			ElapsedMs: e.ElapsedMs,
			Outcome:   string(e.Outcome),
			Time:      e.At.Format(time.RFC3339),
		}
	}
	f.encode(out)
}

func (f *JSONFormatter) FormatError(err error) {
	f.encode(JSONError{Error: err.Error()})
}

func (f *JSONFormatter) encode(v any) {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}
