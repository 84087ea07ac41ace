package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/bench"
	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("", nil, false, true)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleFormatter{}, f)

	f, err = NewFormatter("json", nil, false, true)
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	_, err = NewFormatter("xml", nil, false, true)
	assert.ErrorContains(t, err, "unknown output format")
}

func TestConsoleFormatter_Result(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithVerbose(true), WithNoColor(true))

	f.FormatResult("user", &request.Result{
		Status:    200,
		ElapsedMs: 12,
		Headers:   map[string]string{"Content-Type": "application/json"},
		Cookies:   map[string]string{"sid": "abc"},
		Body:      map[string]any{"id": 1},
	})

	out := buf.String()
	assert.Contains(t, out, "user 200 (12ms)")
	assert.Contains(t, out, "Content-Type: application/json")
	assert.Contains(t, out, "cookie sid=abc")
	assert.Contains(t, out, "\"id\": 1")
}

func TestConsoleFormatter_FailedResult(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatResult("down", request.Failure("connection refused"))

	assert.Equal(t, "down 500 (n/a)\nconnection refused\n", buf.String())
}

func TestConsoleFormatter_Bench(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatBench(&bench.Summary{
		Endpoint: "ping",
		Total:    10,
		OK:       9,
		Failed:   1,
		Statuses: map[int]int64{200: 9, 500: 1},
		P95:      5 * time.Millisecond,
	}, []bench.ThresholdResult{{Name: "p95", Passed: true, Expected: "<= 10ms", Actual: "5ms"}})

	out := buf.String()
	assert.Contains(t, out, "Bench: ping")
	assert.Contains(t, out, "9 ok, 0 aborted, 1 failed")
	assert.Contains(t, out, "✓ p95: 5ms (expected <= 10ms)")
}

func TestConsoleFormatter_History(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	f.FormatHistory(nil)
	assert.Contains(t, buf.String(), "No executions recorded")

	buf.Reset()
	f.FormatHistory([]engine.Entry{{Endpoint: "a", Method: "GET", URL: "http://a.test", Status: 201, ElapsedMs: 3, Outcome: engine.OutcomeOK, At: time.Now()}})
	assert.Contains(t, buf.String(), "GET http://a.test 3ms")
}

func TestJSONFormatter_Result(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatResult("raw", &request.Result{Status: 200, ElapsedMs: 4, Body: []byte(`{"a":[1,2]}`)})

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "raw", out["name"])
	assert.Equal(t, float64(200), out["status"])
	assert.Equal(t, map[string]any{"a": []any{float64(1), float64(2)}}, out["body"])
	assert.NotContains(t, out, "failed")

	buf.Reset()
	f.FormatResult("text", &request.Result{Status: 200, Body: []byte("plain")})
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "plain", out["body"])
}

func TestJSONFormatter_ErrorAndHistory(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))

	f.FormatError(errors.New("boom"))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())

	buf.Reset()
	f.FormatHistory([]engine.Entry{{Endpoint: "a", Outcome: engine.OutcomeAborted, Status: 999}})
	var entries []JSONEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "aborted", entries[0].Outcome)
}
