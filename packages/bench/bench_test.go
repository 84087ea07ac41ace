package bench

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New()
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestRun_CountsOutcomes(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1)%2 == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	e := newEngine(t)
	ep := request.Get("ping", server.URL+"/{path}")

	s, err := Run(context.Background(), e, ep, map[string]any{"path": "health"}, Config{Requests: 20, Concurrency: 4})

	require.NoError(t, err)
	assert.Equal(t, "ping", s.Endpoint)
	assert.Equal(t, int64(20), s.Total)
	assert.Equal(t, int64(20), s.OK)
	assert.Equal(t, int64(10), s.Statuses[200])
	assert.Equal(t, int64(10), s.Statuses[503])
	assert.Zero(t, s.ErrorRate)
	assert.Greater(t, s.Max, time.Duration(0))
	assert.LessOrEqual(t, s.P50, s.P99)
}

func TestRun_AbortedAndFailed(t *testing.T) {
	e := newEngine(t)

	aborted, err := Run(context.Background(), e, request.Get("bad", "http://api.test/{id}"), nil, Config{Requests: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), aborted.Aborted)
	assert.Equal(t, int64(3), aborted.Statuses[request.StatusValidationFailed])
	assert.Equal(t, 1.0, aborted.ErrorRate)

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	failed, err := Run(context.Background(), e, request.Get("down", url), nil, Config{Requests: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), failed.Failed)
}

func TestRun_UsageFaultStops(t *testing.T) {
	e := newEngine(t)
	ep := request.Get("json", "http://api.test")
	ep.ResponseKind = request.ResponseJSON

	_, err := Run(context.Background(), e, ep, nil, Config{Requests: 5})

	assert.ErrorIs(t, err, request.ErrMissingResultType)
}

func TestRun_Duration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer server.Close()

	e := newEngine(t)
	s, err := Run(context.Background(), e, request.Get("ping", server.URL), nil,
		Config{Duration: 100 * time.Millisecond, Concurrency: 2, Rate: 50})

	require.NoError(t, err)
	assert.Greater(t, s.Total, int64(0))
	assert.LessOrEqual(t, s.Total, int64(10))
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{Requests: -1}.Validate())
	assert.NoError(t, Config{Requests: 1}.Validate())
	assert.NoError(t, Config{Duration: time.Second}.Validate())
}

func TestEvaluate(t *testing.T) {
	s := &Summary{P95: 80 * time.Millisecond, P99: 200 * time.Millisecond, ErrorRate: 0.02}

	results := Evaluate(s, Thresholds{P95: 100 * time.Millisecond, P99: 150 * time.Millisecond, ErrorRate: 0.05})

	require.Len(t, results, 3)
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
	assert.True(t, results[2].Passed)
	assert.Equal(t, "2.00%", results[2].Actual)
	assert.Empty(t, Evaluate(s, Thresholds{}))
}

func TestScheduler_BoundsConcurrency(t *testing.T) {
	s := NewScheduler(1, 0)
	require.NoError(t, s.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, s.Acquire(ctx))

	s.Release()
	assert.NoError(t, s.Acquire(context.Background()))
}
