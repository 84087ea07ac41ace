package env

import (
	"io"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Resolver substitutes {{name}} and {{$ENV}} references. Unresolved
// references are left in place and reported by Unresolved.
type Resolver struct {
	variables  map[string]string
	lookupEnv  func(string) (string, bool)
	logger     *slog.Logger
	unresolved map[string]bool
}

type Option func(*Resolver)

// WithVariables adds named variables. Later calls override earlier ones.
func WithVariables(vars map[string]string) Option {
	return func(r *Resolver) {
		for k, v := range vars {
			r.variables[k] = v
		}
	}
}

// WithLookup replaces the environment lookup, os.LookupEnv by default
func WithLookup(fn func(string) (string, bool)) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.lookupEnv = fn
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		variables:  make(map[string]string),
		lookupEnv:  os.LookupEnv,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		unresolved: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Resolve(input string) string {
	if !strings.Contains(input, "{{") {
		return input
	}
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])

		if name, ok := strings.CutPrefix(expr, "$"); ok {
			if val, ok := r.lookupEnv(name); ok {
				return val
			}
		} else if val, ok := r.variables[expr]; ok {
			return val
		}

		if !r.unresolved[expr] {
			r.unresolved[expr] = true
			r.logger.Warn("unresolved variable", "name", expr)
		}
		return match
	})
}

// ResolveAll resolves every value of a map into a new map
func (r *Resolver) ResolveAll(values map[string]string) map[string]string {
	if values == nil {
		return nil
	}
	result := make(map[string]string, len(values))
	for k, v := range values {
		result[k] = r.Resolve(v)
	}
	return result
}

// ResolveValue resolves strings and leaves other values untouched
func (r *Resolver) ResolveValue(v any) any {
	if s, ok := v.(string); ok {
		return r.Resolve(s)
	}
	return v
}

// Unresolved lists the references seen so far that had no value
func (r *Resolver) Unresolved() []string {
	names := make([]string, 0, len(r.unresolved))
	for name := range r.unresolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
