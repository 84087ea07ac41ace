package quick

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdul-hamid-achik/hitreq/packages/core/config"
	"github.com/abdul-hamid-achik/hitreq/packages/core/engine"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server
}

func TestGetHTML(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "go", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
	})

	body, err := GetHTML(context.Background(), server.URL, WithParam("q", "go"))

	require.NoError(t, err)
	assert.Equal(t, "café", body)
}

func TestGetBytes(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0, 1, 2})
	})

	body, err := GetBytes(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, body)
}

func TestGetMapWithCallback(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sid=abc", r.Header.Get("Cookie"))
		assert.Equal(t, "custom", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"a":1}`))
	})

	m, err := GetMap(context.Background(), server.URL,
		WithCookies(map[string]string{"sid": "abc"}),
		WithHeaders(map[string]string{"user-agent": "custom"}),
		WithCallback(func(r *request.Result) *request.Result {
			r.Body.(map[string]any)["b"] = "added"
			return r
		}))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1), "b": "added"}, m)
}

func TestPostJSON(t *testing.T) {
	type created struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		raw, _ := io.ReadAll(r.Body)
		assert.Equal(t, "name=ada&tags=a&tags=b", string(raw))
		_, _ = w.Write([]byte(`{"id":7,"name":"ada"}`))
	})

	out, err := PostJSON[created](context.Background(), server.URL,
		WithParams(map[string]any{"tags": []string{"a", "b"}, "name": "ada"}))

	require.NoError(t, err)
	assert.Equal(t, created{ID: 7, Name: "ada"}, out)
}

func TestPostHTMLInCharset(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.Equal(t, "q=%C4%E3%BA%C3", string(raw))
		_, _ = w.Write([]byte("ok"))
	})

	body, err := PostHTML(context.Background(), server.URL, WithCharset("GBK"), WithParam("q", "你好"))

	require.NoError(t, err)
	assert.Equal(t, "ok", body)
}

func TestDo_FailureError(t *testing.T) {
	server := newServer(t, func(http.ResponseWriter, *http.Request) {})
	url := server.URL
	server.Close()

	_, err := PostMap(context.Background(), url)

	var fe *FailureError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, request.StatusDispatchFailed, fe.Result.Status)
	assert.Contains(t, fe.Error(), "status 500")
}

func TestDo_DecodeFailure(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})

	_, err := GetMap(context.Background(), server.URL)

	assert.Error(t, err)
}

func TestDo_WithEngine(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UserAgent = "configured"
	e, err := engine.New(engine.WithConfig(cfg))
	require.NoError(t, err)
	defer e.Close()

	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "configured", r.Header.Get("User-Agent"))
	})

	res, err := Do(context.Background(), http.MethodDelete, server.URL, request.ResponseBytes, nil, WithEngine(e))

	require.NoError(t, err)
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, int64(1), e.Stats().Completed)
}
