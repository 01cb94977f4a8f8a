package render

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-tablegen/pkg/errs"
)

// Registry stores renderers by name. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates a registry holding renderers. It panics on duplicate
// or unnamed renderers.
func NewRegistry(renderers ...Renderer) *Registry {
	r := &Registry{renderers: make(map[string]Renderer, len(renderers))}
	for _, renderer := range renderers {
		r.MustRegister(renderer)
	}
	return r
}

// Register adds renderer under its Name. Names must be unique.
func (r *Registry) Register(renderer Renderer) error {
	name, err := nameOf(renderer)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[name]; exists {
		return errs.Newf(errs.CodeInvalidArgument, "render: renderer %q already registered", name).WithDetail("renderer", name)
	}
	r.renderers[name] = renderer
	return nil
}

// MustRegister is Register panicking on error.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Replace registers renderer, overwriting any renderer with the same name.
func (r *Registry) Replace(renderer Renderer) error {
	name, err := nameOf(renderer)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.renderers[name] = renderer
	r.mu.Unlock()
	return nil
}

// Get returns the named renderer or a NotFound error.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.renderers[strings.TrimSpace(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.Newf(errs.CodeNotFound, "render: renderer %q not found", name).WithDetail("renderer", name)
	}
	return renderer, nil
}

// List returns renderer names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.renderers)
}

func nameOf(renderer Renderer) (string, error) {
	if renderer == nil {
		return "", errs.New(errs.CodeInvalidArgument, "render: renderer is required")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return "", errs.New(errs.CodeInvalidArgument, "render: renderer name is required")
	}
	return name, nil
}
