package sanitize

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Built-in sanitizer names.
const (
	NameEscape = "escape"
	NameStrict = "strict"
	NameUGC    = "ugc"
	NameInline = "inline"
	NameUpper  = "upper"
	NameLower  = "lower"
	NameTitle  = "title"
	NameTrim   = "trim"
)

// Registry resolves sanitizers by name so declarative definitions can refer
// to them.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns a registry seeded with the built-in sanitizers.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	r.funcs[NameEscape] = Escape
	r.funcs[NameStrict] = Strict
	r.funcs[NameUGC] = UGC
	r.funcs[NameInline] = Inline
	r.funcs[NameUpper] = Upper
	r.funcs[NameLower] = Lower
	r.funcs[NameTitle] = Title
	r.funcs[NameTrim] = Trim
	return r
}

// Register adds a sanitizer. Duplicate names return an error.
func (r *Registry) Register(name string, fn Func) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("sanitize: name is required")
	}
	if fn == nil {
		return fmt.Errorf("sanitize: sanitizer %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("sanitize: sanitizer %q already registered", name)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Get looks up a sanitizer by name.
func (r *Registry) Get(name string) (Func, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("sanitize: sanitizer %q not found", name)
	}
	return fn, nil
}

// Resolve looks up several names, preserving order.
func (r *Registry) Resolve(names ...string) ([]Func, error) {
	out := make([]Func, 0, len(names))
	for _, name := range names {
		fn, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, fn)
	}
	return out, nil
}

// Names returns registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.funcs[strings.TrimSpace(name)]
	return ok
}
