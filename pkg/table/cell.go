package table

import (
	"fmt"

	"github.com/goliatone/go-tablegen/pkg/attrs"
	"github.com/goliatone/go-tablegen/pkg/data"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
)

// Renderable content renders itself, such as a nested *Table.
type Renderable interface {
	Render() (string, error)
}

// Cell holds one value of a row. Content may be a string, a fmt.Stringer, a
// Renderable, a number, nil, or a func() string / func() (string, error)
// evaluated at render time.
type Cell struct {
	*attrs.Container

	content    any
	sanitizers []sanitize.Func
	row        *Row
}

// NewCell creates a detached cell.
func NewCell(content any) *Cell {
	return &Cell{
		Container: attrs.NewContainer(),
		content:   content,
	}
}

// Content returns the raw content.
func (c *Cell) Content() any {
	return c.content
}

// SetContent replaces the content.
func (c *Cell) SetContent(content any) *Cell {
	c.content = content
	return c
}

// Prepend resolves the current content and prefixes text to it.
func (c *Cell) Prepend(text string) error {
	current, err := resolveContent(c.content)
	if err != nil {
		return err
	}
	c.content = text + current
	return nil
}

// Append resolves the current content and suffixes text to it.
func (c *Cell) Append(text string) error {
	current, err := resolveContent(c.content)
	if err != nil {
		return err
	}
	c.content = current + text
	return nil
}

// Sanitize adds sanitizers applied in order at render time. Called without
// arguments it adds HTML escaping.
func (c *Cell) Sanitize(fns ...sanitize.Func) *Cell {
	if len(fns) == 0 {
		fns = []sanitize.Func{sanitize.Escape}
	}
	for _, fn := range fns {
		if fn != nil {
			c.sanitizers = append(c.sanitizers, fn)
		}
	}
	return c
}

// ClearSanitizers drops every sanitizer on the cell.
func (c *Cell) ClearSanitizers() *Cell {
	c.sanitizers = nil
	return c
}

// HasSanitizers reports whether the cell carries its own sanitizers.
func (c *Cell) HasSanitizers() bool {
	return len(c.sanitizers) > 0
}

// Row returns the owning row, nil when detached.
func (c *Cell) Row() *Row {
	return c.row
}

// Text resolves the content and applies the cell sanitizers, falling back to
// defaults when the cell has none.
func (c *Cell) Text(defaults ...sanitize.Func) (string, error) {
	text, err := resolveContent(c.content)
	if err != nil {
		return "", err
	}
	fns := c.sanitizers
	if len(fns) == 0 {
		fns = defaults
	}
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		if text, err = fn(text); err != nil {
			return "", fmt.Errorf("sanitize: %w", err)
		}
	}
	return text, nil
}

func (c *Cell) attach(row *Row) {
	c.row = row
	var parent *data.Container
	if row != nil {
		parent = row.Data()
	}
	c.Data().SetParent(parent)
}

func resolveContent(content any) (string, error) {
	switch v := content.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case Renderable:
		return v.Render()
	case func() (string, error):
		return v()
	case func() string:
		return v(), nil
	case func() any:
		return resolveContent(v())
	default:
		return data.Stringify(v), nil
	}
}
