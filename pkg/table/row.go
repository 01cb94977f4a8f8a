package table

import (
	"github.com/goliatone/go-tablegen/pkg/attrs"
	"github.com/goliatone/go-tablegen/pkg/errs"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
)

// Row is an ordered list of cells.
type Row struct {
	*attrs.Container

	cells []*Cell
	group *Group
}

// NewRow creates a detached row with one cell per content value.
func NewRow(contents ...any) *Row {
	r := &Row{Container: attrs.NewContainer()}
	r.AddCells(contents...)
	return r
}

// AddCell appends a new cell and returns it.
func (r *Row) AddCell(content any) *Cell {
	cell := NewCell(content)
	r.AppendCell(cell)
	return cell
}

// AddCells appends one cell per content value.
func (r *Row) AddCells(contents ...any) []*Cell {
	out := make([]*Cell, 0, len(contents))
	for _, content := range contents {
		out = append(out, r.AddCell(content))
	}
	return out
}

// AppendCell attaches existing cells to the row.
func (r *Row) AppendCell(cells ...*Cell) *Row {
	for _, cell := range cells {
		if cell == nil {
			continue
		}
		cell.attach(r)
		r.cells = append(r.cells, cell)
	}
	return r
}

// SkipCells appends n empty cells. At least one cell is always added.
func (r *Row) SkipCells(n int) *Row {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		r.AddCell(nil)
	}
	return r
}

// Cell returns the cell at index i.
func (r *Row) Cell(i int) (*Cell, error) {
	if i < 0 || i >= len(r.cells) {
		return nil, errs.Newf(errs.CodeOutOfBounds, "table: cell index %d out of range", i).WithDetail("index", i)
	}
	return r.cells[i], nil
}

// Cells returns the cells in order.
func (r *Row) Cells() []*Cell {
	return append([]*Cell(nil), r.cells...)
}

// Len returns the number of cells.
func (r *Row) Len() int {
	return len(r.cells)
}

// RemoveCell detaches the cell at index i.
func (r *Row) RemoveCell(i int) error {
	cell, err := r.Cell(i)
	if err != nil {
		return err
	}
	cell.attach(nil)
	r.cells = append(r.cells[:i], r.cells[i+1:]...)
	return nil
}

// Clear detaches every cell.
func (r *Row) Clear() *Row {
	for _, cell := range r.cells {
		cell.attach(nil)
	}
	r.cells = nil
	return r
}

// Sanitize adds sanitizers to every current cell.
func (r *Row) Sanitize(fns ...sanitize.Func) *Row {
	for _, cell := range r.cells {
		cell.Sanitize(fns...)
	}
	return r
}

// SanitizeColumns adds sanitizers per cell index. Indexes without a cell are
// ignored.
func (r *Row) SanitizeColumns(byIndex map[int][]sanitize.Func) *Row {
	for i, fns := range byIndex {
		if i < 0 || i >= len(r.cells) {
			continue
		}
		r.cells[i].Sanitize(fns...)
	}
	return r
}

// Group returns the owning group, nil when detached.
func (r *Row) Group() *Group {
	return r.group
}

func (r *Row) attach(group *Group) {
	r.group = group
	if group == nil {
		r.Data().SetParent(nil)
		return
	}
	r.Data().SetParent(group.Data())
}
