package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/hitreq/packages/core/pipeline"
)

// ErrUnknownHandler is returned when configuration names a handler that was
// never registered
var ErrUnknownHandler = errors.New("unknown handler")

// BuiltinName is the registry name of every built-in handler
const BuiltinName = "builtin"

// Slot identifies one replaceable default handler
type Slot string

const (
	SlotDefaults   Slot = "defaults"
	SlotValidation Slot = "validation"
	SlotAssembly   Slot = "assembly"
	SlotURL        Slot = "url"
	SlotParse      Slot = "parse"
)

// Set is the default handler set registered into every execution
type Set struct {
	Defaults   pipeline.PreHandler
	Validation pipeline.PreHandler
	Assembly   pipeline.PreHandler
	URL        pipeline.PreHandler
	Parse      pipeline.PostHandler
}

// Options configure the built-in handlers
type Options struct {
	StrictURL bool
	Decoder   Decoder
	Logger    *slog.Logger
}

// DefaultSet returns the built-in handlers
func DefaultSet(opts Options) Set {
	return Set{
		Defaults:   Defaults{},
		Validation: NewValidation(),
		Assembly:   Assembly{},
		URL:        NewURLTemplate(opts.StrictURL, opts.Logger),
		Parse:      NewResultParse(opts.Decoder),
	}
}

// Register adds the set's handlers to a pipeline
func (s Set) Register(p *pipeline.Pipeline) {
	p.RegisterPre(s.Defaults)
	p.RegisterPre(s.Validation)
	p.RegisterPre(s.Assembly)
	p.RegisterPre(s.URL)
	p.RegisterPost(s.Parse)
}

// PreFactory builds a pre-handler for a slot
type PreFactory func(opts Options) pipeline.PreHandler

// PostFactory builds a post-handler for a slot
type PostFactory func(opts Options) pipeline.PostHandler

// Registry maps configured handler names to factories. Applications register
// their replacements explicitly; configuration only picks among them.
type Registry struct {
	mu   sync.RWMutex
	pre  map[Slot]map[string]PreFactory
	post map[Slot]map[string]PostFactory
}

// NewRegistry returns a registry with the built-ins under BuiltinName
func NewRegistry() *Registry {
	r := &Registry{
		pre:  make(map[Slot]map[string]PreFactory),
		post: make(map[Slot]map[string]PostFactory),
	}
	r.RegisterPre(SlotDefaults, BuiltinName, func(Options) pipeline.PreHandler { return Defaults{} })
	r.RegisterPre(SlotValidation, BuiltinName, func(Options) pipeline.PreHandler { return NewValidation() })
	r.RegisterPre(SlotAssembly, BuiltinName, func(Options) pipeline.PreHandler { return Assembly{} })
	r.RegisterPre(SlotURL, BuiltinName, func(o Options) pipeline.PreHandler {
		return NewURLTemplate(o.StrictURL, o.Logger)
	})
	r.RegisterPost(SlotParse, BuiltinName, func(o Options) pipeline.PostHandler {
		return NewResultParse(o.Decoder)
	})
	return r
}

func (r *Registry) RegisterPre(slot Slot, name string, f PreFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pre[slot] == nil {
		r.pre[slot] = make(map[string]PreFactory)
	}
	r.pre[slot][name] = f
}

func (r *Registry) RegisterPost(slot Slot, name string, f PostFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.post[slot] == nil {
		r.post[slot] = make(map[string]PostFactory)
	}
	r.post[slot][name] = f
}

// Names lists the registered names for a slot
func (r *Registry) Names(slot Slot) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names(slot)
}

func (r *Registry) names(slot Slot) []string {
	var names []string
	for n := range r.pre[slot] {
		names = append(names, n)
	}
	for n := range r.post[slot] {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) unknown(slot Slot, name string) error {
	return fmt.Errorf("%w: %s handler %q (registered: %s)", ErrUnknownHandler, slot, name, strings.Join(r.names(slot), ", "))
}

// Resolve builds a Set from slot names. Empty names select the built-in.
func (r *Registry) Resolve(names map[Slot]string, opts Options) (Set, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pre := func(slot Slot) (pipeline.PreHandler, error) {
		name := names[slot]
		if name == "" {
			name = BuiltinName
		}
		f, ok := r.pre[slot][name]
		if !ok {
			return nil, r.unknown(slot, name)
		}
		return f(opts), nil
	}

	var (
		set Set
		err error
	)
	if set.Defaults, err = pre(SlotDefaults); err != nil {
		return Set{}, err
	}
	if set.Validation, err = pre(SlotValidation); err != nil {
		return Set{}, err
	}
	if set.Assembly, err = pre(SlotAssembly); err != nil {
		return Set{}, err
	}
	if set.URL, err = pre(SlotURL); err != nil {
		return Set{}, err
	}

	name := names[SlotParse]
	if name == "" {
		name = BuiltinName
	}
	f, ok := r.post[SlotParse][name]
	if !ok {
		return Set{}, r.unknown(SlotParse, name)
	}
	set.Parse = f(opts)
	return set, nil
}
