package table

import (
	"github.com/goliatone/go-tablegen/pkg/attrs"
	"github.com/goliatone/go-tablegen/pkg/errs"
)

// Group is a table section (thead, tbody or tfoot) holding ordered rows.
type Group struct {
	*attrs.Container

	role  Role
	rows  []*Row
	table *Table
}

// NewGroup creates a detached group for role.
func NewGroup(role Role) *Group {
	return &Group{
		Container: attrs.NewContainer(),
		role:      role,
	}
}

// Role returns the section role.
func (g *Group) Role() Role {
	return g.role
}

// Table returns the owning table, nil when detached.
func (g *Group) Table() *Table {
	return g.table
}

// AddRow appends a new row with one cell per content value.
func (g *Group) AddRow(contents ...any) *Row {
	row := NewRow(contents...)
	g.AppendRow(row)
	return row
}

// AppendRow attaches existing rows.
func (g *Group) AppendRow(rows ...*Row) *Group {
	for _, row := range rows {
		if row == nil {
			continue
		}
		row.attach(g)
		g.rows = append(g.rows, row)
	}
	return g
}

// CurrentRow returns the last row, creating one when the group is empty.
func (g *Group) CurrentRow() *Row {
	if len(g.rows) == 0 {
		return g.AddRow()
	}
	return g.rows[len(g.rows)-1]
}

// AddCell appends a cell to the current row.
func (g *Group) AddCell(content any) *Cell {
	return g.CurrentRow().AddCell(content)
}

// AddCells appends cells to the current row.
func (g *Group) AddCells(contents ...any) []*Cell {
	return g.CurrentRow().AddCells(contents...)
}

// SetColumns replaces the rows of a header group with a single row of
// labels. Other groups reject the call.
func (g *Group) SetColumns(labels ...any) (*Row, error) {
	if g.role != RoleHeader {
		return nil, errs.Newf(errs.CodeBadMethod, "table: columns can only be set on the header, not %s", g.role).
			WithDetail("group", g.role.String())
	}
	g.Clear()
	return g.AddRow(labels...), nil
}

// Row returns the row at index i.
func (g *Group) Row(i int) (*Row, error) {
	if i < 0 || i >= len(g.rows) {
		return nil, errs.Newf(errs.CodeOutOfBounds, "table: row index %d out of range", i).WithDetail("index", i)
	}
	return g.rows[i], nil
}

// Rows returns the rows in order.
func (g *Group) Rows() []*Row {
	return append([]*Row(nil), g.rows...)
}

// Len returns the number of rows.
func (g *Group) Len() int {
	return len(g.rows)
}

// RemoveRow detaches the row at index i.
func (g *Group) RemoveRow(i int) error {
	row, err := g.Row(i)
	if err != nil {
		return err
	}
	row.attach(nil)
	g.rows = append(g.rows[:i], g.rows[i+1:]...)
	return nil
}

// Clear detaches every row.
func (g *Group) Clear() *Group {
	for _, row := range g.rows {
		row.attach(nil)
	}
	g.rows = nil
	return g
}

func (g *Group) attach(t *Table) {
	g.table = t
	if t == nil {
		g.Data().SetParent(nil)
		return
	}
	g.Data().SetParent(t.Data())
}
