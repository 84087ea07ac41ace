package handlers

import (
	"errors"
	"reflect"
	"testing"

	"github.com/abdul-hamid-achik/hitreq/packages/core/pipeline"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultParse_HTML(t *testing.T) {
	c := request.NewContext()
	c.Charset = "ISO-8859-1"
	r := &request.Result{Status: 200, Body: []byte{'c', 'a', 'f', 0xe9}}

	out := NewResultParse(nil).Handle(c, r)

	assert.Equal(t, "café", out.Body)
}

func TestResultParse_HeaderCharsetWins(t *testing.T) {
	c := request.NewContext()
	c.Charset = "GBK"
	r := &request.Result{
		Status:  200,
		Headers: map[string]string{"Content-Type": "text/html; charset=utf-8"},
		Body:    []byte("plain"),
	}

	out := NewResultParse(nil).Handle(c, r)

	assert.Equal(t, "plain", out.Body)
}

func TestResultParse_Bytes(t *testing.T) {
	c := request.NewContext().SetResponseKind(request.ResponseBytes)
	raw := []byte{0, 1, 2}

	out := NewResultParse(nil).Handle(c, &request.Result{Status: 200, Body: raw})

	assert.Equal(t, raw, out.Body)
}

func TestResultParse_JSONThenUserHandler(t *testing.T) {
	c := request.NewContext().SetResponseKind(request.ResponseJSON)
	c.ResultType = request.MapType

	p := pipeline.New()
	p.RegisterPost(pipeline.Callback(func(r *request.Result) *request.Result {
		r.Body.(map[string]any)["b"] = "added"
		return r
	}))
	p.RegisterPost(NewResultParse(nil))

	out := p.RunPost(c, &request.Result{Status: 200, Body: []byte(`{"a":1}`)})

	m, ok := out.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), m["a"])
	assert.Equal(t, "added", m["b"])
}

func TestResultParse_JSONStruct(t *testing.T) {
	type user struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	c := request.NewContext().SetResponseKind(request.ResponseJSON)
	c.ResultType = request.TypeOf[user]()

	out := NewResultParse(nil).Handle(c, &request.Result{Status: 200, Body: []byte(`{"id":7,"name":"ada"}`)})

	assert.Equal(t, user{ID: 7, Name: "ada"}, out.Body)
}

func TestResultParse_MalformedJSON(t *testing.T) {
	c := request.NewContext().SetResponseKind(request.ResponseJSON)
	c.ResultType = request.MapType

	out := NewResultParse(nil).Handle(c, &request.Result{Status: 200, Body: []byte(`{"a":`)})

	assert.Equal(t, 200, out.Status)
	body, ok := out.Body.(string)
	require.True(t, ok)
	assert.Contains(t, body, "decoding")
}

func TestResultParse_Schema(t *testing.T) {
	c := request.NewContext().SetResponseKind(request.ResponseJSON)
	c.ResultType = request.MapType
	c.ResponseSchema = `{"type":"object","required":["id"]}`

	out := NewResultParse(nil).Handle(c, &request.Result{Status: 200, Body: []byte(`{"name":"x"}`)})
	assert.Contains(t, out.Text(), "schema validation failed")

	out = NewResultParse(nil).Handle(c, &request.Result{Status: 200, Body: []byte(`{"id":1}`)})
	assert.IsType(t, map[string]any{}, out.Body)
}

func TestResultParse_SkipsFailures(t *testing.T) {
	c := request.NewContext().SetResponseKind(request.ResponseJSON)
	c.ResultType = request.MapType
	in := request.Failure("connection refused")

	out := NewResultParse(nil).Handle(c, in)

	assert.Equal(t, "connection refused", out.Body)
}

type failingDecoder struct{}

func (failingDecoder) Decode([]byte, reflect.Type) (any, error) {
	return nil, errors.New("decoder offline")
}

func TestResultParse_CustomDecoder(t *testing.T) {
	c := request.NewContext().SetResponseKind(request.ResponseJSON)
	c.ResultType = request.MapType

	out := NewResultParse(failingDecoder{}).Handle(c, &request.Result{Status: 200, Body: []byte(`{}`)})

	assert.Contains(t, out.Text(), "decoder offline")
}

func TestJSONDecoder_NilType(t *testing.T) {
	_, err := JSONDecoder{}.Decode([]byte(`{}`), nil)
	assert.ErrorIs(t, err, request.ErrMissingResultType)
}
