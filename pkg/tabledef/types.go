// Package tabledef loads declarative table definitions from JSON or YAML and
// builds tables from them.
package tabledef

// Definition describes one table: its element attributes, the column model
// and any static footer rows.
type Definition struct {
	Name   string `json:"-" yaml:"-"`
	Source string `json:"-" yaml:"-"`

	Caption    string            `json:"caption,omitempty" yaml:"caption,omitempty"`
	CaptionKey string            `json:"captionKey,omitempty" yaml:"captionKey,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Classes    []string          `json:"classes,omitempty" yaml:"classes,omitempty"`
	// Sanitize names the sanitizers applied to cells that have none.
	Sanitize []string    `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
	Columns  []Column    `json:"columns" yaml:"columns"`
	Footer   []FooterRow `json:"footer,omitempty" yaml:"footer,omitempty"`
}

// Column maps a record key to a table column.
type Column struct {
	Key            string            `json:"key" yaml:"key"`
	Header         string            `json:"header,omitempty" yaml:"header,omitempty"`
	HeaderKey      string            `json:"headerKey,omitempty" yaml:"headerKey,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	CellAttributes map[string]string `json:"cellAttributes,omitempty" yaml:"cellAttributes,omitempty"`
	Sanitize       []string          `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
	Default        any               `json:"default,omitempty" yaml:"default,omitempty"`

	// Type, Format and Enum mirror schema property metadata and drive
	// presenter resolution.
	Type      string   `json:"type,omitempty" yaml:"type,omitempty"`
	Format    string   `json:"format,omitempty" yaml:"format,omitempty"`
	Enum      []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	Presenter string   `json:"presenter,omitempty" yaml:"presenter,omitempty"`

	Hidden bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Tags   []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// FooterRow is a static row appended to the tfoot group.
type FooterRow struct {
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Cells      []FooterCell      `json:"cells" yaml:"cells"`
}

type FooterCell struct {
	Content    string            `json:"content" yaml:"content"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Selection narrows a definition to columns matching any key or tag.
type Selection struct {
	Keys []string
	Tags []string
}

// Clone returns a deep copy of the definition.
func (d Definition) Clone() Definition {
	out := d
	out.Attributes = cloneStrings(d.Attributes)
	out.Classes = append([]string(nil), d.Classes...)
	out.Sanitize = append([]string(nil), d.Sanitize...)
	if d.Columns != nil {
		out.Columns = make([]Column, len(d.Columns))
		for i, col := range d.Columns {
			out.Columns[i] = col.clone()
		}
	}
	if d.Footer != nil {
		out.Footer = make([]FooterRow, len(d.Footer))
		for i, row := range d.Footer {
			cells := make([]FooterCell, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = FooterCell{Content: cell.Content, Attributes: cloneStrings(cell.Attributes)}
			}
			out.Footer[i] = FooterRow{Attributes: cloneStrings(row.Attributes), Cells: cells}
		}
	}
	return out
}

// Keys lists the column keys in order, hidden columns included.
func (d Definition) Keys() []string {
	out := make([]string, 0, len(d.Columns))
	for _, col := range d.Columns {
		out = append(out, col.Key)
	}
	return out
}

func (c Column) clone() Column {
	out := c
	out.Attributes = cloneStrings(c.Attributes)
	out.CellAttributes = cloneStrings(c.CellAttributes)
	out.Sanitize = append([]string(nil), c.Sanitize...)
	out.Enum = append([]string(nil), c.Enum...)
	out.Tags = append([]string(nil), c.Tags...)
	return out
}

func cloneStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
