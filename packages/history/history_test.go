package history

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, conn string) *Store {
	t.Helper()
	s, err := Open(conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "history.db"))
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, status := range []int{200, 404, 999} {
		require.NoError(t, s.Record(ctx, engine.Entry{
			Endpoint:  "user",
			Method:    "GET",
			URL:       "http://api.test/users/1",
			Status:    status,
			ElapsedMs: int64(i),
			Outcome:   engine.OutcomeOK,
			At:        at.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 999, entries[0].Status)
	assert.Equal(t, 404, entries[1].Status)
	assert.True(t, at.Add(2*time.Second).Equal(entries[0].At))
	assert.Equal(t, engine.OutcomeOK, entries[0].Outcome)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open("sqlite://" + path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), engine.Entry{Endpoint: "a", Method: "GET", URL: "http://a.test"}))
	require.NoError(t, s.Close())

	s = openStore(t, "sqlite:"+path)
	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].At.IsZero())
}

func TestStore_AsEngineRecorder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	s := openStore(t, filepath.Join(t.TempDir(), "history.db"))
	e, err := engine.New(engine.WithRecorder(s))
	require.NoError(t, err)
	defer e.Close()

	ep := request.Get("brew", server.URL+"/{pot}", request.NewParameter("pot", request.Required()))
	_, err = e.Do(context.Background(), ep, map[string]any{"pot": "kettle"})
	require.NoError(t, err)
	_, err = e.Do(context.Background(), ep, nil)
	require.NoError(t, err)

	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, engine.OutcomeAborted, entries[0].Outcome)
	assert.Equal(t, request.StatusValidationFailed, entries[0].Status)
	assert.Equal(t, engine.OutcomeOK, entries[1].Outcome)
	assert.Equal(t, http.StatusTeapot, entries[1].Status)
	assert.Equal(t, server.URL+"/kettle", entries[1].URL)
}

func TestParseConnectionString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"runs.db", "runs.db", false},
		{"sqlite://runs.db", "runs.db", false},
		{"sqlite:./runs.db", "./runs.db", false},
		{" runs.db ", "runs.db", false},
		{"postgres://localhost/runs", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseConnectionString(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
