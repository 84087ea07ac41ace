package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/hitreq/packages/core/pipeline"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(params ...request.ParameterDefine) *request.Context {
	c := request.NewContext()
	for _, p := range params {
		c.Declare(p)
	}
	return c
}

func TestDefaults(t *testing.T) {
	c := newContext(
		request.NewParameter("page", request.WithDefault(1)),
		request.NewParameter("sort", request.WithDefault("asc")),
		request.NewParameter("q"),
	)
	c.SetInput("sort", "desc")

	require.True(t, Defaults{}.Handle(c))
	assert.Equal(t, 1, c.Inputs["page"])
	assert.Equal(t, "desc", c.Inputs["sort"])
	assert.NotContains(t, c.Inputs, "q")

	// idempotent
	require.True(t, Defaults{}.Handle(c))
	assert.Equal(t, 1, c.Inputs["page"])
	assert.Equal(t, "desc", c.Inputs["sort"])
}

func TestDefaults_EmptyStringIsAbsent(t *testing.T) {
	c := newContext(request.NewParameter("lang", request.WithDefault("en")))
	c.SetInput("lang", "")

	Defaults{}.Handle(c)

	assert.Equal(t, "en", c.Inputs["lang"])
}

func TestValidation_ReportsAllErrors(t *testing.T) {
	c := newContext(
		request.NewParameter("id", request.Required()),
		request.NewParameter("age", request.WithType(request.TypeInt)),
		request.NewParameter("code", request.WithPattern(`[A-Z]{3}`)),
		request.NewParameter("ok"),
	)
	c.SetInput("age", "forty")
	c.SetInput("code", "abcd")
	c.SetInput("ok", "fine")

	ok := NewValidation().Handle(c)

	assert.False(t, ok)
	require.Len(t, c.Errors, 3)
	assert.Equal(t, "id", c.Errors[0].Parameter)
	assert.Equal(t, "age", c.Errors[1].Parameter)
	assert.Equal(t, "code", c.Errors[2].Parameter)
	assert.Contains(t, c.ErrorText(), "id")
}

func TestValidation_RequiredSatisfiedByDefault(t *testing.T) {
	c := newContext(request.NewParameter("id", request.Required(), request.WithDefault(7)))

	p := pipeline.New()
	DefaultSet(Options{StrictURL: true}).Register(p)
	c.URL = "http://example.com"

	assert.True(t, p.RunPre(c))
	assert.Empty(t, c.Errors)
}

func TestValidation_Types(t *testing.T) {
	tests := []struct {
		name  string
		typ   request.ParamType
		value any
		valid bool
	}{
		{"int from int", request.TypeInt, 42, true},
		{"int from string", request.TypeInt, "42", true},
		{"int from integral float", request.TypeInt, 3.0, true},
		{"int from fraction", request.TypeInt, 3.5, false},
		{"int from word", request.TypeInt, "x", false},
		{"float from string", request.TypeFloat, "2.5", true},
		{"float from int", request.TypeFloat, 2, true},
		{"bool from string", request.TypeBool, "true", true},
		{"bool from word", request.TypeBool, "maybe", false},
		{"string from number", request.TypeString, 1, true},
		{"string from slice", request.TypeString, []string{"a"}, false},
		{"array from slice", request.TypeArray, []int{1, 2}, true},
		{"array from scalar", request.TypeArray, "a", false},
		{"file from File", request.TypeFile, request.File{Filename: "a.txt"}, true},
		{"file from string", request.TypeFile, "a.txt", false},
		{"any", request.TypeAny, map[string]int{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContext(request.NewParameter("v", request.WithType(tt.typ)))
			c.SetInput("v", tt.value)
			assert.Equal(t, tt.valid, NewValidation().Handle(c))
		})
	}
}

func TestValidation_PatternOnArrayElements(t *testing.T) {
	c := newContext(request.NewParameter("ids", request.WithPattern(`\d+`)))
	c.SetInput("ids", []string{"1", "22", "x3"})

	assert.False(t, NewValidation().Handle(c))
	assert.Contains(t, c.ErrorText(), "x3")
}

func TestValidation_InvalidPattern(t *testing.T) {
	c := newContext(request.NewParameter("v", request.WithPattern(`(`)))
	c.SetInput("v", "x")

	assert.False(t, NewValidation().Handle(c))
	assert.Contains(t, c.ErrorText(), "invalid pattern")
}

func TestAssembly(t *testing.T) {
	c := newContext(
		request.NewParameter("b"),
		request.NewParameter("a"),
		request.NewParameter("unset"),
	)
	c.SetInput("a", 1.5)
	c.SetInput("b", "x")
	c.AddParameter("tags", []string{"go", "http"})
	c.AddParameter("upload", request.File{Filename: "a.txt", Content: []byte("hi")})
	c.AddParameter("raw", []byte("bytes"))

	require.True(t, Assembly{}.Handle(c))
	require.Len(t, c.Assembled, 5)

	assert.Equal(t, request.Param{Name: "b", Kind: request.KindScalar, Values: []string{"x"}}, c.Assembled[0])
	assert.Equal(t, request.Param{Name: "a", Kind: request.KindScalar, Values: []string{"1.5"}}, c.Assembled[1])
	assert.Equal(t, request.Param{Name: "tags", Kind: request.KindMulti, Values: []string{"go", "http"}}, c.Assembled[2])
	assert.Equal(t, request.KindFile, c.Assembled[3].Kind)
	assert.Equal(t, "a.txt", c.Assembled[3].File.Filename)
	assert.Equal(t, request.Param{Name: "raw", Kind: request.KindScalar, Values: []string{"bytes"}}, c.Assembled[4])
}

func TestAssembly_OSFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b"), 0644))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	c := request.NewContext()
	c.AddParameter("report", f)
	Assembly{}.Handle(c)

	require.Len(t, c.Assembled, 1)
	assert.Equal(t, "report.csv", c.Assembled[0].File.Filename)
	assert.Equal(t, path, c.Assembled[0].File.Path)
}

func TestURLTemplate(t *testing.T) {
	c := newContext(request.NewParameter("id"))
	c.URL = "http://api.test/{id}/info"
	c.SetInput("id", 42)
	c.AddParameter("verbose", true)
	Assembly{}.Handle(c)

	ok := NewURLTemplate(true, nil).Handle(c)

	require.True(t, ok)
	assert.Equal(t, "http://api.test/42/info", c.URL)
	require.Len(t, c.Assembled, 1)
	assert.Equal(t, "verbose", c.Assembled[0].Name)
}

func TestURLTemplate_Unresolved(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		c := request.NewContext()
		c.URL = "http://api.test/{id}/{slug}"
		c.AddParameter("slug", "x")

		assert.False(t, NewURLTemplate(true, nil).Handle(c))
		assert.Equal(t, "http://api.test/{id}/x", c.URL)
		assert.Contains(t, c.ErrorText(), "{id}")
	})

	t.Run("pass-through", func(t *testing.T) {
		c := request.NewContext()
		c.URL = "http://api.test/{id}"

		assert.True(t, NewURLTemplate(false, nil).Handle(c))
		assert.Equal(t, "http://api.test/{id}", c.URL)
		assert.False(t, c.HasErrors())
	})
}

func TestURLTemplate_WholeURL(t *testing.T) {
	c := request.NewContext()
	c.URL = "{url}"
	c.AddParameter("url", "http://api.test/x?y=1")
	Assembly{}.Handle(c)

	require.True(t, NewURLTemplate(true, nil).Handle(c))
	assert.Equal(t, "http://api.test/x?y=1", c.URL)
	assert.Empty(t, c.Assembled)
}
