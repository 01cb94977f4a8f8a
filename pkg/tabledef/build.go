package tabledef

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-tablegen/pkg/presenters"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
	"github.com/goliatone/go-tablegen/pkg/table"
)

// BuildOption configures Definition.Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	sanitizers *sanitize.Registry
	presenters *presenters.Registry
	options    []table.Option
}

// WithSanitizers resolves sanitizer names against reg instead of the
// built-in registry.
func WithSanitizers(reg *sanitize.Registry) BuildOption {
	return func(cfg *buildConfig) {
		if reg != nil {
			cfg.sanitizers = reg
		}
	}
}

// WithPresenters applies presenter resolution to every visible column.
func WithPresenters(reg *presenters.Registry) BuildOption {
	return func(cfg *buildConfig) {
		cfg.presenters = reg
	}
}

// WithTableOptions appends table options applied after the definition.
func WithTableOptions(options ...table.Option) BuildOption {
	return func(cfg *buildConfig) {
		cfg.options = append(cfg.options, options...)
	}
}

// Build creates a table with the definition's attributes, header row and
// footer rows. Records are added afterwards through Table.Hydrate.
func (d Definition) Build(options ...BuildOption) (*table.Table, error) {
	cfg := buildConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.sanitizers == nil {
		cfg.sanitizers = sanitize.NewRegistry()
	}

	columns, err := d.TableColumns(cfg.sanitizers, cfg.presenters)
	if err != nil {
		return nil, err
	}
	defaults, err := cfg.sanitizers.Resolve(d.Sanitize...)
	if err != nil {
		return nil, fmt.Errorf("tabledef: table %q: %w", d.Name, err)
	}

	tableOptions := []table.Option{
		table.WithAttributes(d.Attributes),
		table.WithCaption(d.Caption),
		table.WithColumns(columns...),
	}
	if len(d.Classes) > 0 {
		tableOptions = append(tableOptions, table.WithClass(d.Classes...))
	}
	if len(defaults) > 0 {
		tableOptions = append(tableOptions, table.WithDefaultSanitizers(defaults...))
	}
	tableOptions = append(tableOptions, cfg.options...)

	t, err := table.New(tableOptions...)
	if err != nil {
		return nil, fmt.Errorf("tabledef: table %q: %w", d.Name, err)
	}

	for i, footer := range d.Footer {
		row := table.NewRow()
		if err := row.SetAttributes(footer.Attributes); err != nil {
			return nil, fmt.Errorf("tabledef: table %q footer row %d: %w", d.Name, i, err)
		}
		for _, spec := range footer.Cells {
			cell := row.AddCell(spec.Content)
			if err := cell.SetAttributes(spec.Attributes); err != nil {
				return nil, fmt.Errorf("tabledef: table %q footer row %d: %w", d.Name, i, err)
			}
		}
		t.Footer().AppendRow(row)
	}
	return t, nil
}

// TableColumns converts the visible columns into table columns.
func (d Definition) TableColumns(sanitizers *sanitize.Registry, reg *presenters.Registry) ([]table.Column, error) {
	if sanitizers == nil {
		sanitizers = sanitize.NewRegistry()
	}
	out := make([]table.Column, 0, len(d.Columns))
	for _, spec := range d.Columns {
		if spec.Hidden {
			continue
		}
		fns, err := sanitizers.Resolve(spec.Sanitize...)
		if err != nil {
			return nil, fmt.Errorf("tabledef: table %q column %q: %w", d.Name, spec.Key, err)
		}
		col := table.Column{
			Key:              spec.Key,
			Header:           spec.Header,
			HeaderAttributes: cloneStrings(spec.Attributes),
			CellAttributes:   cloneStrings(spec.CellAttributes),
			Default:          spec.Default,
			Sanitizers:       fns,
		}
		if col.Header == "" {
			col.Header = HeaderFromKey(spec.Key)
		}
		if reg != nil {
			reg.Apply(presenters.Field{
				Key:       spec.Key,
				Type:      spec.Type,
				Format:    spec.Format,
				Enum:      spec.Enum,
				Presenter: spec.Presenter,
			}, &col)
		}
		out = append(out, col)
	}
	return out, nil
}

// HeaderFromKey derives a label from a record key: "user.created_at"
// becomes "Created At".
func HeaderFromKey(key string) string {
	key = strings.TrimSpace(key)
	if idx := strings.LastIndex(key, "."); idx >= 0 {
		key = key[idx+1:]
	}
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}
