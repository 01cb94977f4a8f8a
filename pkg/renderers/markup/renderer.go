// Package markup renders tables by writing the resolved view directly, with
// no template engine involved. It is the default renderer.
package markup

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/table"
)

const Name = "markup"

type Option func(*Renderer)

// WithStylesheetURL sets the stylesheet linked when RenderOptions.Stylesheet
// is set and the theme does not resolve one.
func WithStylesheetURL(url string) Option {
	return func(r *Renderer) {
		r.stylesheetURL = url
	}
}

// Renderer writes table markup.
type Renderer struct {
	stylesheetURL string
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, t *table.Table, options render.RenderOptions) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("markup renderer: table is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view, err := t.View()
	if err != nil {
		return nil, err
	}
	if err := options.Apply(&view); err != nil {
		return nil, fmt.Errorf("markup renderer: apply options: %w", err)
	}

	var buf bytes.Buffer
	if options.Stylesheet {
		if href := r.stylesheet(options); href != "" {
			fmt.Fprintf(&buf, `<link rel="stylesheet" href="%s">`, html.EscapeString(href))
		}
	}
	if _, err := view.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("markup renderer: write: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) stylesheet(options render.RenderOptions) string {
	if href := render.NewThemeContext(options.Theme).AssetURL(render.AssetStylesheet); href != "" {
		return href
	}
	return r.stylesheetURL
}
