package table

import (
	"fmt"

	"github.com/goliatone/go-tablegen/pkg/data"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
)

// Filter transforms a column value before it becomes cell content. The
// record exposes the whole source row.
type Filter func(value any, record *data.Container) (any, error)

// Column maps a record key onto a body cell.
type Column struct {
	// Key is a dot path into the record. Empty keys produce blank cells
	// unless Default or Filter supply content.
	Key string
	// Header is the label rendered in the header row.
	Header string

	HeaderAttributes map[string]string
	CellAttributes   map[string]string
	// CellClasses are added to the cell class list after CellAttributes.
	CellClasses []string

	Filter     Filter
	Default    any
	Sanitizers []sanitize.Func
}

// SetColumns stores the column model and rewrites the header row from the
// column labels. Passing no columns clears the model and the header.
func (t *Table) SetColumns(columns ...Column) error {
	t.columns = append([]Column(nil), columns...)
	header := t.Header()
	header.Clear()
	if len(columns) == 0 {
		t.RemoveGroup(RoleHeader)
		return nil
	}
	row := header.AddRow()
	for _, col := range columns {
		cell := row.AddCell(col.Header)
		if err := cell.SetAttributes(col.HeaderAttributes); err != nil {
			return fmt.Errorf("table: column %q header attributes: %w", col.Key, err)
		}
	}
	return nil
}

// Columns returns the column model.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// Hydrate appends one body row per record using the column model. Records
// may be maps, *data.Container values or structs encodable as JSON objects.
// The record data is stored on the row, so cells can read sibling values.
// Rows are appended only when every record succeeds.
func (t *Table) Hydrate(records ...any) error {
	if len(t.columns) == 0 {
		return fmt.Errorf("table: hydrate requires columns")
	}
	rows := make([]*Row, 0, len(records))
	for i, record := range records {
		rec, err := data.FromRecord(record)
		if err != nil {
			return fmt.Errorf("table: record %d: %w", i, err)
		}
		row := NewRow()
		if err := row.Data().SetData(rec.Local()); err != nil {
			return fmt.Errorf("table: record %d: %w", i, err)
		}
		rec.SetReadOnly(true)
		for _, col := range t.columns {
			cell, err := col.cell(rec)
			if err != nil {
				return fmt.Errorf("table: record %d column %q: %w", i, col.Key, err)
			}
			row.AppendCell(cell)
		}
		rows = append(rows, row)
	}
	t.Body().AppendRow(rows...)
	return nil
}

func (col Column) cell(rec *data.Container) (*Cell, error) {
	var value any
	if col.Key != "" {
		value = rec.Get(col.Key, col.Default)
	} else {
		value = data.Result(col.Default)
	}
	if col.Filter != nil {
		filtered, err := col.Filter(value, rec)
		if err != nil {
			return nil, err
		}
		value = filtered
	}
	cell := NewCell(value)
	if err := cell.SetAttributes(col.CellAttributes); err != nil {
		return nil, err
	}
	if len(col.CellClasses) > 0 {
		if err := cell.AddClass(col.CellClasses...); err != nil {
			return nil, err
		}
	}
	if len(col.Sanitizers) > 0 {
		cell.Sanitize(col.Sanitizers...)
	}
	return cell, nil
}
