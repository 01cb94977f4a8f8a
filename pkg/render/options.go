package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/table"
)

// RenderOptions describe per-request presentation tweaks applied on top of
// the table without mutating it.
type RenderOptions struct {
	// Theme carries the resolved theme (tokens, partials, CSS variables and
	// asset resolution). Nil renders without theming.
	Theme *theme.RendererConfig
	// Caption overrides the table caption.
	Caption string
	// Classes are appended to the table class list.
	Classes []string
	// Attributes are set on the table element, replacing existing values.
	Attributes map[string]string
	// Stylesheet asks renderers that ship a stylesheet to emit a link (or
	// inline style) before the table.
	Stylesheet bool

	// Locale, Translator and OnMissing localize definition labels and feed
	// the template translate helper.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// Apply folds the options and theme into a resolved view.
func (o RenderOptions) Apply(view *table.View) error {
	if view == nil {
		return nil
	}
	if o.Caption != "" {
		view.Caption = o.Caption
	}
	if len(o.Classes) > 0 {
		if err := view.Attributes.Add("class", false, o.Classes...); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(o.Attributes) {
		if err := view.Attributes.Set(name, o.Attributes[name]); err != nil {
			return err
		}
	}
	return NewThemeContext(o.Theme).Decorate(view)
}
