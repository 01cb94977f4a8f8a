// Package tablegen is the top-level entry point: it re-exports the table
// builder and wires definitions, renderers and themes through the
// orchestrator for callers that only want HTML.
package tablegen

import (
	"context"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/orchestrator"
	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/table"
	"github.com/goliatone/go-tablegen/pkg/tabledef"
)

// Table aliases table.Table so simple callers need a single import.
type Table = table.Table

// Column aliases table.Column.
type Column = table.Column

// Definition aliases tabledef.Definition.
type Definition = tabledef.Definition

// RenderOptions describes per-request presentation overrides.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// New returns an empty table.
func New(options ...table.Option) (*Table, error) {
	return table.New(options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the definitions in defs, builds the named table,
// hydrates it with records and renders it with the named renderer. An empty
// renderer name uses the default markup renderer.
func GenerateHTML(ctx context.Context, defs fs.FS, name, rendererName string, records []any, options ...orchestrator.Option) ([]byte, error) {
	options = append([]orchestrator.Option{orchestrator.WithDefinitionsFS(defs)}, options...)
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Name:     name,
		Records:  records,
		Renderer: rendererName,
	})
}

// GenerateHTMLFromDefinition renders an in-memory definition, bypassing the
// definition store.
func GenerateHTMLFromDefinition(ctx context.Context, def Definition, rendererName string, records []any, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Name:       def.Name,
		Definition: &def,
		Records:    records,
		Renderer:   rendererName,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemes registers theme manifests with the orchestrator, selecting
// defaultTheme and defaultVariant when a request names none.
func WithThemes(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) orchestrator.Option {
	return orchestrator.WithThemes(defaultTheme, defaultVariant, manifests...)
}
