// Package table builds HTML tables from a Table → Group → Row → Cell tree.
//
// Every node embeds an attrs.Container, and each node's data container uses
// its owner's as parent, so a cell can read values set on its row, group or
// table:
//
//	t := table.New(table.WithClass("users"))
//	t.SetHeader("Name", "Age")
//	t.AddRow("Alice", 30)
//	html, err := t.Render()
//
// Sections render in header, footer, body order. Sections without rows are
// omitted.
package table

import (
	"sort"

	"github.com/goliatone/go-tablegen/pkg/attrs"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
)

// Option configures a Table.
type Option func(*Table) error

// WithAttributes sets table attributes.
func WithAttributes(values map[string]string) Option {
	return func(t *Table) error {
		return t.SetAttributes(values)
	}
}

// WithClass adds classes to the table element.
func WithClass(classes ...string) Option {
	return func(t *Table) error {
		return t.AddClass(classes...)
	}
}

// WithDefaultSanitizers sets the sanitizers applied to cells that have none.
func WithDefaultSanitizers(fns ...sanitize.Func) Option {
	return func(t *Table) error {
		t.defaults = append(t.defaults[:0], fns...)
		return nil
	}
}

// WithColumns configures the column model and header row.
func WithColumns(columns ...Column) Option {
	return func(t *Table) error {
		return t.SetColumns(columns...)
	}
}

// WithCaption sets the caption text. It is always escaped.
func WithCaption(caption string) Option {
	return func(t *Table) error {
		t.caption = caption
		return nil
	}
}

// WithData seeds the table data container in sorted key order.
func WithData(values map[string]any) Option {
	return func(t *Table) error {
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := t.Data().Set(key, values[key]); err != nil {
				return err
			}
		}
		return nil
	}
}

// Table is the root node.
type Table struct {
	*attrs.Container

	groups   map[Role]*Group
	columns  []Column
	defaults []sanitize.Func
	caption  string
}

// New constructs a table and applies options.
func New(options ...Option) (*Table, error) {
	t := &Table{
		Container: attrs.NewContainer(),
		groups:    make(map[Role]*Group, 3),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNew panics when an option fails.
func MustNew(options ...Option) *Table {
	t, err := New(options...)
	if err != nil {
		panic(err)
	}
	return t
}

// Group returns the group for role, creating it on first access.
func (t *Table) Group(role Role) *Group {
	if g, ok := t.groups[role]; ok {
		return g
	}
	g := NewGroup(role)
	g.attach(t)
	t.groups[role] = g
	return g
}

// HasGroup reports whether the group for role was created.
func (t *Table) HasGroup(role Role) bool {
	_, ok := t.groups[role]
	return ok
}

// SetGroup replaces the group for its role.
func (t *Table) SetGroup(g *Group) *Table {
	if g == nil {
		return t
	}
	if old, ok := t.groups[g.role]; ok && old != g {
		old.attach(nil)
	}
	g.attach(t)
	t.groups[g.role] = g
	return t
}

// RemoveGroup drops the group for role.
func (t *Table) RemoveGroup(role Role) {
	if g, ok := t.groups[role]; ok {
		g.attach(nil)
		delete(t.groups, role)
	}
}

func (t *Table) Header() *Group { return t.Group(RoleHeader) }
func (t *Table) Body() *Group   { return t.Group(RoleBody) }
func (t *Table) Footer() *Group { return t.Group(RoleFooter) }

// SetHeader replaces the header with a single row of labels.
func (t *Table) SetHeader(labels ...any) *Row {
	row, _ := t.Header().SetColumns(labels...)
	return row
}

// SetFooter appends a footer row.
func (t *Table) SetFooter(contents ...any) *Row {
	return t.Footer().AddRow(contents...)
}

// AddRow appends a body row.
func (t *Table) AddRow(contents ...any) *Row {
	return t.Body().AddRow(contents...)
}

// SetDefaultSanitizers replaces the fallback sanitizers.
func (t *Table) SetDefaultSanitizers(fns ...sanitize.Func) *Table {
	t.defaults = append([]sanitize.Func(nil), fns...)
	return t
}

// DefaultSanitizers returns the fallback sanitizers.
func (t *Table) DefaultSanitizers() []sanitize.Func {
	return append([]sanitize.Func(nil), t.defaults...)
}

// SetCaption sets the caption text.
func (t *Table) SetCaption(caption string) *Table {
	t.caption = caption
	return t
}

// Caption returns the caption text.
func (t *Table) Caption() string {
	return t.caption
}
