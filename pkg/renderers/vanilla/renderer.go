// Package vanilla renders tables through pongo2 templates. The embedded
// template produces the same markup as the markup renderer; callers swap it
// through WithTemplatesFS, WithTemplatesDir or a theme partial.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-tablegen/pkg/render"
	rendertemplate "github.com/goliatone/go-tablegen/pkg/render/template"
	gotemplate "github.com/goliatone/go-tablegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-tablegen/pkg/table"
)

const Name = "vanilla"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithInlineStyles inlines the embedded stylesheet when a stylesheet is
// requested and the theme does not resolve a URL for it.
func WithInlineStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	inlineStyles bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, inlineStyles: cfg.inlineStyles}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, t *table.Table, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if t == nil {
		return nil, fmt.Errorf("vanilla renderer: table is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view, err := t.View()
	if err != nil {
		return nil, err
	}
	if err := options.Apply(&view); err != nil {
		return nil, fmt.Errorf("vanilla renderer: apply options: %w", err)
	}

	themeCtx := render.NewThemeContext(options.Theme)
	templateName := themeCtx.Partial(render.PartialTable, TableTemplate)

	payload := map[string]any{
		"table": buildTableContext(view),
		"theme": map[string]any{
			"name":         themeCtx.Name,
			"variant":      themeCtx.Variant,
			"tokens":       themeCtx.Tokens,
			"cssVarsStyle": themeCtx.CSSVarsStyle,
		},
		"stylesheet":    "",
		"inline_styles": "",
		"locale":        options.Locale,
	}
	for name, fn := range render.TemplateI18nFuncs(options.Translator, render.TemplateI18nConfig{OnMissing: options.OnMissing}) {
		payload[name] = fn
	}
	if options.Stylesheet {
		if href := themeCtx.AssetURL(render.AssetStylesheet); href != "" {
			payload["stylesheet"] = href
		} else if r.inlineStyles {
			payload["inline_styles"] = defaultStylesheet()
		}
	}

	result, err := r.templates.RenderTemplate(templateName, payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// buildTableContext flattens a view into plain maps. Attributes are rendered
// up front because the template engine only sees JSON-shaped data.
func buildTableContext(view table.View) map[string]any {
	groups := make([]any, 0, len(view.Groups))
	for _, group := range view.Groups {
		rows := make([]any, 0, len(group.Rows))
		for _, row := range group.Rows {
			cells := make([]any, 0, len(row.Cells))
			for _, cell := range row.Cells {
				cells = append(cells, map[string]any{
					"tag":     cell.Tag,
					"attrs":   cell.Attributes.String(),
					"content": cell.Content,
				})
			}
			rows = append(rows, map[string]any{
				"attrs": row.Attributes.String(),
				"cells": cells,
			})
		}
		groups = append(groups, map[string]any{
			"role":  group.Role.String(),
			"tag":   group.Tag,
			"attrs": group.Attributes.String(),
			"rows":  rows,
		})
	}
	return map[string]any{
		"attrs":   view.Attributes.String(),
		"caption": view.Caption,
		"groups":  groups,
		"data":    view.Data,
	}
}
