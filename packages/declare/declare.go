package declare

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/hitreq/packages/core/env"
	"github.com/abdul-hamid-achik/hitreq/packages/core/request"
	"gopkg.in/yaml.v3"
)

// ErrUnknownEndpoint is returned when a catalog has no endpoint of that name
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// File is the on-disk declaration format
type File struct {
	BaseURL   string            `yaml:"baseUrl,omitempty"`
	Variables map[string]string `yaml:"variables,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	Endpoints []EndpointDecl    `yaml:"endpoints"`
}

type EndpointDecl struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	URL         string            `yaml:"url"`
	Method      string            `yaml:"method,omitempty"`
	Charset     string            `yaml:"charset,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	Parameters  []ParameterDecl   `yaml:"parameters,omitempty"`
	Response    ResponseDecl      `yaml:"response,omitempty"`
}

type ParameterDecl struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Type        string `yaml:"type,omitempty"`
	Required    bool   `yaml:"required,omitempty"`
	Default     any    `yaml:"default,omitempty"`
	Example     string `yaml:"example,omitempty"`
	Pattern     string `yaml:"pattern,omitempty"`
}

// ResponseDecl describes the expected body. Shape picks the decoded JSON
// type: object (default), array or any.
type ResponseDecl struct {
	Kind   string `yaml:"kind,omitempty"`
	Shape  string `yaml:"shape,omitempty"`
	Schema string `yaml:"schema,omitempty"`
}

// Catalog holds the endpoints of one declaration file
type Catalog struct {
	endpoints  map[string]*request.Endpoint
	order      []string
	unresolved []string
}

type loadOptions struct {
	envFile string
	vars    map[string]string
	logger  *slog.Logger
}

// Option configures loading
type Option func(*loadOptions)

// WithEnvFile reads variables from a .env file. They override the
// variables block of the declaration.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		o.envFile = path
	}
}

// WithVariables sets variables that override both the declaration and
// the .env file
func WithVariables(vars map[string]string) Option {
	return func(o *loadOptions) {
		o.vars = vars
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *loadOptions) {
		o.logger = l
	}
}

// Load reads and validates a declaration file
func Load(path string, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse reads a declaration document and resolves its {{variable}}
// references
func Parse(data []byte, opts ...Option) (*Catalog, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing declarations: %w", err)
	}

	resolverOpts := []env.Option{env.WithVariables(f.Variables), env.WithLogger(o.logger)}
	if o.envFile != "" {
		vars, err := env.LoadDotEnv(o.envFile)
		if err != nil {
			return nil, err
		}
		resolverOpts = append(resolverOpts, env.WithVariables(vars))
	}
	resolverOpts = append(resolverOpts, env.WithVariables(o.vars))
	r := env.NewResolver(resolverOpts...)

	f.BaseURL = r.Resolve(f.BaseURL)
	f.Headers = r.ResolveAll(f.Headers)

	c := &Catalog{endpoints: make(map[string]*request.Endpoint, len(f.Endpoints))}
	for i, decl := range f.Endpoints {
		if decl.Name == "" {
			return nil, fmt.Errorf("%w: endpoint %d has no name", request.ErrInvalidEndpoint, i+1)
		}
		if _, dup := c.endpoints[decl.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate endpoint %q", request.ErrInvalidEndpoint, decl.Name)
		}
		decl.resolve(r)
		ep, err := decl.endpoint(&f)
		if err != nil {
			return nil, err
		}
		c.endpoints[decl.Name] = ep
		c.order = append(c.order, decl.Name)
	}
	c.unresolved = r.Unresolved()
	return c, nil
}

func (d *EndpointDecl) resolve(r *env.Resolver) {
	d.URL = r.Resolve(d.URL)
	d.Headers = r.ResolveAll(d.Headers)
	params := make([]ParameterDecl, len(d.Parameters))
	for i, p := range d.Parameters {
		p.Default = r.ResolveValue(p.Default)
		params[i] = p
	}
	d.Parameters = params
}

func (d EndpointDecl) endpoint(f *File) (*request.Endpoint, error) {
	url := d.URL
	if f.BaseURL != "" && !strings.Contains(url, "://") && !strings.HasPrefix(url, "{") {
		url = strings.TrimRight(f.BaseURL, "/") + "/" + strings.TrimLeft(url, "/")
	}
	if url == "" {
		return nil, fmt.Errorf("%w: %s: no url", request.ErrInvalidEndpoint, d.Name)
	}

	ep := &request.Endpoint{
		Name:           d.Name,
		Description:    d.Description,
		URL:            url,
		Method:         strings.ToUpper(d.Method),
		Charset:        d.Charset,
		ResponseSchema: d.Response.Schema,
	}
	for k, v := range f.Headers {
		ep.WithHeader(k, v)
	}
	for k, v := range d.Headers {
		ep.WithHeader(k, v)
	}

	for _, p := range d.Parameters {
		typ, err := request.ParseParamType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: parameter %q: %v", request.ErrInvalidEndpoint, d.Name, p.Name, err)
		}
		opts := []request.ParameterOption{
			request.WithDescription(p.Description),
			request.WithExample(p.Example),
			request.WithType(typ),
			request.WithPattern(p.Pattern),
		}
		if p.Required {
			opts = append(opts, request.Required())
		}
		if p.Default != nil {
			opts = append(opts, request.WithDefault(p.Default))
		}
		ep.Parameters = append(ep.Parameters, request.NewParameter(p.Name, opts...))
	}

	kind, err := request.ParseResponseKind(d.Response.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", request.ErrInvalidEndpoint, d.Name, err)
	}
	ep.ResponseKind = kind
	if kind == request.ResponseJSON {
		if ep.ResultType, err = shapeType(d.Response.Shape); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", request.ErrInvalidEndpoint, d.Name, err)
		}
	}

	if err := ep.Validate(); err != nil {
		return nil, err
	}
	return ep, nil
}

func shapeType(shape string) (reflect.Type, error) {
	switch strings.ToLower(shape) {
	case "", "object", "map":
		return request.MapType, nil
	case "array", "list":
		return request.TypeOf[[]any](), nil
	case "any":
		return request.TypeOf[any](), nil
	default:
		return nil, fmt.Errorf("unknown response shape %q", shape)
	}
}

// Get returns the endpoint declared under name
func (c *Catalog) Get(name string) (*request.Endpoint, error) {
	ep, ok := c.endpoints[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (declared: %s)", ErrUnknownEndpoint, name, strings.Join(c.Names(), ", "))
	}
	return ep, nil
}

// Names lists endpoint names in declaration order
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Unresolved lists {{variable}} references that had no value
func (c *Catalog) Unresolved() []string {
	return append([]string(nil), c.unresolved...)
}

// Sorted lists endpoint names alphabetically
func (c *Catalog) Sorted() []string {
	names := c.Names()
	sort.Strings(names)
	return names
}
