package table

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-tablegen/pkg/errs"
)

// Registry keeps named tables so separate parts of a request can build the
// same table.
type Registry struct {
	mu       sync.RWMutex
	tables   map[string]*Table
	defaults []Option
}

// NewRegistry creates an empty registry. Defaults apply to tables created by
// Instance.
func NewRegistry(defaults ...Option) *Registry {
	return &Registry{
		tables:   make(map[string]*Table),
		defaults: defaults,
	}
}

// Instance returns the table registered under name, creating it with the
// registry defaults followed by options when missing.
func (r *Registry) Instance(name string, options ...Option) (*Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.New(errs.CodeInvalidArgument, "table: instance name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.tables[name]; ok {
		return t, nil
	}
	t, err := New(append(append([]Option(nil), r.defaults...), options...)...)
	if err != nil {
		return nil, err
	}
	r.tables[name] = t
	return t, nil
}

// Get returns a registered table.
func (r *Registry) Get(name string) (*Table, error) {
	name = strings.TrimSpace(name)
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[name]
	if !ok {
		return nil, errs.Newf(errs.CodeNotFound, "table: instance %q not found", name).WithDetail("name", name)
	}
	return t, nil
}

// Set registers t under name, replacing any previous table.
func (r *Registry) Set(name string, t *Table) error {
	name = strings.TrimSpace(name)
	if name == "" || t == nil {
		return errs.New(errs.CodeInvalidArgument, "table: instance name and table are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables[name] = t
	return nil
}

// Remove forgets name.
func (r *Registry) Remove(name string) {
	name = strings.TrimSpace(name)
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tables, name)
}

// Names returns registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
