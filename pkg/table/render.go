package table

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/goliatone/go-tablegen/pkg/attrs"
	"github.com/goliatone/go-tablegen/pkg/errs"
)

// RenderError locates a failing cell.
type RenderError struct {
	Group Role
	Row   int
	Cell  int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("table: render %s row %d cell %d: %v", e.Group, e.Row, e.Cell, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is matches errs.ErrRender.
func (e *RenderError) Is(target error) bool {
	var coded *errs.Error
	return errors.As(target, &coded) && coded.Code == errs.CodeRender
}

// View is a resolved snapshot of a table: cell content has been evaluated
// and sanitized, attributes copied. Renderers consume views so they never
// evaluate content twice.
type View struct {
	Attributes *attrs.Map
	Caption    string
	Groups     []GroupView
	Data       map[string]any
}

// GroupView is a resolved section.
type GroupView struct {
	Role       Role
	Tag        string
	Attributes *attrs.Map
	Rows       []RowView
}

// RowView is a resolved row.
type RowView struct {
	Attributes *attrs.Map
	Cells      []CellView
}

// CellView is a resolved cell.
type CellView struct {
	Tag        string
	Attributes *attrs.Map
	Content    string
}

// View resolves the table in render order, skipping empty sections.
func (t *Table) View() (View, error) {
	view := View{
		Attributes: t.Attributes().Clone(),
		Caption:    t.caption,
		Data:       t.Data().Data(),
	}
	for _, role := range renderOrder {
		group, ok := t.groups[role]
		if !ok || group.Len() == 0 {
			continue
		}
		gv := GroupView{
			Role:       role,
			Tag:        role.GroupTag(),
			Attributes: group.Attributes().Clone(),
			Rows:       make([]RowView, 0, len(group.rows)),
		}
		for ri, row := range group.rows {
			rv := RowView{
				Attributes: row.Attributes().Clone(),
				Cells:      make([]CellView, 0, len(row.cells)),
			}
			for ci, cell := range row.cells {
				text, err := cell.Text(t.defaults...)
				if err != nil {
					return View{}, &RenderError{Group: role, Row: ri, Cell: ci, Err: err}
				}
				rv.Cells = append(rv.Cells, CellView{
					Tag:        role.CellTag(),
					Attributes: cell.Attributes().Clone(),
					Content:    text,
				})
			}
			gv.Rows = append(gv.Rows, rv)
		}
		view.Groups = append(view.Groups, gv)
	}
	return view, nil
}

// Render returns the table markup.
func (t *Table) Render() (string, error) {
	var b strings.Builder
	if _, err := t.WriteTo(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteTo writes the table markup to w. Nothing is written when a cell
// fails to resolve.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	view, err := t.View()
	if err != nil {
		return 0, err
	}
	return view.WriteTo(w)
}

// String renders the table, returning the error text on failure.
func (t *Table) String() string {
	out, err := t.Render()
	if err != nil {
		return err.Error()
	}
	return out
}

// WriteTo writes the view as HTML.
func (v View) WriteTo(w io.Writer) (int64, error) {
	ew := &errWriter{w: w}
	ew.open("table", v.Attributes)
	if v.Caption != "" {
		ew.write("<caption>" + html.EscapeString(v.Caption) + "</caption>")
	}
	for _, group := range v.Groups {
		ew.open(group.Tag, group.Attributes)
		for _, row := range group.Rows {
			ew.open("tr", row.Attributes)
			for _, cell := range row.Cells {
				ew.open(cell.Tag, cell.Attributes)
				ew.write(cell.Content)
				ew.close(cell.Tag)
			}
			ew.close("tr")
		}
		ew.close(group.Tag)
	}
	ew.close("table")
	return ew.n, ew.err
}

// HTML renders the view to a string.
func (v View) HTML() string {
	var b strings.Builder
	_, _ = v.WriteTo(&b)
	return b.String()
}

type errWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (ew *errWriter) write(s string) {
	if ew.err != nil || s == "" {
		return
	}
	n, err := io.WriteString(ew.w, s)
	ew.n += int64(n)
	ew.err = err
}

func (ew *errWriter) open(tag string, attributes *attrs.Map) {
	ew.write("<" + tag)
	if ew.err != nil {
		return
	}
	if attributes != nil {
		n, err := attributes.WriteTo(ew.w)
		ew.n += n
		ew.err = err
	}
	ew.write(">")
}

func (ew *errWriter) close(tag string) {
	ew.write("</" + tag + ">")
}
