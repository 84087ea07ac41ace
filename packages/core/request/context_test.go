package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_AddParameterKeepsOrder(t *testing.T) {
	c := NewContext()
	c.Declare(NewParameter("id"))
	c.AddParameter("q", "x")
	c.AddParameter("page", 2)
	c.AddParameter("q", "y")
	c.AddParameter("id", 1)

	assert.Equal(t, []string{"q", "page"}, c.AdhocNames())
	v, ok := c.Input("q")
	require.True(t, ok)
	assert.Equal(t, "y", v)
}

func TestContext_Declare(t *testing.T) {
	c := NewContext()
	c.Declare(NewParameter("id", Required()))
	c.Declare(NewParameter("id"))

	require.Len(t, c.Parameters, 1)
	assert.True(t, c.Parameters[0].Required)
}

func TestContext_CloneIsIndependent(t *testing.T) {
	c := NewContext()
	c.URL = "http://example.com"
	c.AddHeader("X-Token", "abc")
	c.AddCookie("session", "s1")
	c.AddParameter("q", "x")
	c.Declare(NewParameter("id"))

	next := c.Clone()
	next.URL = "http://other.example.com"
	next.AddHeader("X-Token", "changed")
	next.AddCookie("other", "o")
	next.AddParameter("page", 2)
	next.Declare(NewParameter("limit"))
	next.AddError("q", "bad")

	assert.Equal(t, "http://example.com", c.URL)
	assert.Equal(t, "abc", c.Headers["X-Token"])
	assert.NotContains(t, c.Cookies, "other")
	assert.Equal(t, []string{"q"}, c.AdhocNames())
	assert.Len(t, c.Parameters, 1)
	assert.False(t, c.HasErrors())
	assert.Equal(t, []string{"q", "page"}, next.AdhocNames())
	assert.Len(t, next.Parameters, 2)
}

func TestContext_Carry(t *testing.T) {
	c := NewContext()
	c.AddCookie("session", "s1")
	c.AddHeader("X-Token", "abc")

	next := c.Carry()
	next.AddCookie("other", "o")

	assert.Equal(t, "s1", next.Cookies["session"])
	assert.Empty(t, next.Headers)
	assert.NotContains(t, c.Cookies, "other")
}

func TestContext_ErrorText(t *testing.T) {
	c := NewContext()
	c.AddError("id", "is required")
	c.AddError("", "url has unresolved token {x}")

	assert.Equal(t, `parameter "id": is required; url has unresolved token {x}`, c.ErrorText())
}

func TestContext_HasHeader(t *testing.T) {
	c := NewContext()
	c.AddHeader("user-agent", "x")
	assert.True(t, c.HasHeader("User-Agent"))
	assert.False(t, c.HasHeader("Accept"))
}

func TestParseResponseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ResponseKind
		wantErr bool
	}{
		{"", ResponseHTML, false},
		{"HTML", ResponseHTML, false},
		{"bytes", ResponseBytes, false},
		{"json", ResponseJSON, false},
		{"xml", ResponseHTML, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResponseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParameterDefine_HasDefault(t *testing.T) {
	assert.False(t, NewParameter("a").HasDefault())
	assert.False(t, NewParameter("a", WithDefault("")).HasDefault())
	assert.True(t, NewParameter("a", WithDefault(0)).HasDefault())
	assert.True(t, NewParameter("a", WithDefault("x")).HasDefault())
}

func TestParseParamType(t *testing.T) {
	pt, err := ParseParamType("int")
	require.NoError(t, err)
	assert.Equal(t, TypeInt, pt)

	pt, err = ParseParamType("")
	require.NoError(t, err)
	assert.Equal(t, TypeAny, pt)

	_, err = ParseParamType("decimal")
	assert.Error(t, err)
}

func TestEndpoint_Validate(t *testing.T) {
	var nilEndpoint *Endpoint
	assert.ErrorIs(t, nilEndpoint.Validate(), ErrInvalidEndpoint)

	ep := Get("user", "/users/{id}", NewParameter("id"), NewParameter("id"))
	assert.ErrorIs(t, ep.Validate(), ErrInvalidEndpoint)

	ep = &Endpoint{Name: "x", URL: "/", Method: "BREW"}
	assert.ErrorIs(t, ep.Validate(), ErrInvalidEndpoint)

	ep = Post("user", "/users", NewParameter("name", Required())).ExpectJSON(MapType)
	assert.NoError(t, ep.Validate())
}
