// Package presenters picks a display treatment for a column from its declared
// type and format. A presenter contributes cell classes and a value
// formatter; the registry resolves one per column by priority.
package presenters

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/goliatone/go-tablegen/pkg/data"
	"github.com/goliatone/go-tablegen/pkg/table"
)

// Built-in presenter identifiers exposed by the registry.
const (
	PresenterBoolean  = "boolean"
	PresenterNumber   = "number"
	PresenterDateTime = "datetime"
	PresenterEnum     = "enum"
	PresenterText     = "text"
)

// Field describes a column the way schemas describe properties.
type Field struct {
	Key    string
	Type   string
	Format string
	Enum   []string
	// Presenter, when set, bypasses matcher evaluation.
	Presenter string
}

// Matcher decides whether a presenter should handle the supplied field.
type Matcher func(field Field) bool

// Presenter formats values for one kind of column.
type Presenter struct {
	Classes []string
	Format  func(value any) (any, error)
}

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Option configures a Registry.
type Option func(*Registry)

// WithLanguage sets the language used for number and label formatting.
func WithLanguage(tag language.Tag) Option {
	return func(r *Registry) {
		r.lang = tag
	}
}

// WithoutBuiltins skips the built-in presenters.
func WithoutBuiltins() Option {
	return func(r *Registry) {
		r.skipBuiltins = true
	}
}

// Registry selects presenters for fields based on explicit names or
// registered matchers. Higher priority wins; ties fall back to registration
// order.
type Registry struct {
	mu         sync.RWMutex
	rules      []rule
	presenters map[string]Presenter

	lang         language.Tag
	skipBuiltins bool
}

// NewRegistry constructs a registry with the built-in presenters registered.
func NewRegistry(options ...Option) *Registry {
	reg := &Registry{
		presenters: make(map[string]Presenter),
		lang:       language.English,
	}
	for _, opt := range options {
		if opt != nil {
			opt(reg)
		}
	}
	if !reg.skipBuiltins {
		reg.registerBuiltins()
	}
	return reg
}

// Register adds a presenter with its matcher. A nil matcher registers the
// presenter for explicit use only. Re-registering a name replaces the
// presenter and adds another rule; the latest rule wins ties.
func (r *Registry) Register(name string, priority int, matcher Matcher, presenter Presenter) {
	if r == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.presenters[trimmed] = presenter
	if matcher == nil {
		return
	}
	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Lookup returns the presenter registered under name.
func (r *Registry) Lookup(name string) (Presenter, bool) {
	if r == nil {
		return Presenter{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presenters[strings.TrimSpace(name)]
	return p, ok
}

// Names lists registered presenter names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.presenters))
	for name := range r.presenters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the presenter name for a field. An explicit name wins over
// matcher evaluation when it is registered.
func (r *Registry) Resolve(field Field) (string, bool) {
	if r == nil {
		return "", false
	}
	if explicit := strings.TrimSpace(field.Presenter); explicit != "" {
		if _, ok := r.Lookup(explicit); ok {
			return explicit, true
		}
	}

	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order > rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Apply resolves a presenter for field and folds it into col: classes are
// appended and the formatter runs after any existing filter.
func (r *Registry) Apply(field Field, col *table.Column) string {
	if r == nil || col == nil {
		return ""
	}
	name, ok := r.Resolve(field)
	if !ok {
		return ""
	}
	presenter, _ := r.Lookup(name)
	col.CellClasses = append(col.CellClasses, presenter.Classes...)
	if presenter.Format != nil {
		col.Filter = chain(col.Filter, presenter.Format)
	}
	return name
}

func chain(filter table.Filter, format func(any) (any, error)) table.Filter {
	if filter == nil {
		return func(value any, _ *data.Container) (any, error) {
			return format(value)
		}
	}
	return func(value any, record *data.Container) (any, error) {
		out, err := filter(value, record)
		if err != nil {
			return nil, err
		}
		return format(out)
	}
}
