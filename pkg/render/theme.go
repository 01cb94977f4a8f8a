package render

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/table"
)

// Token keys read by ThemeContext.Decorate. Each holds a class list added to
// the matching element, for example "table.class": "table is-striped".
const (
	TokenTableClass  = "table.class"
	TokenHeaderClass = "thead.class"
	TokenBodyClass   = "tbody.class"
	TokenFooterClass = "tfoot.class"
	TokenRowClass    = "tr.class"
	TokenHeadClass   = "th.class"
	TokenCellClass   = "td.class"
)

// Partial keys a theme can override.
const (
	PartialTable      = "tables.table"
	AssetStylesheet   = "tables.stylesheet"
	themeAttribute    = "data-theme"
	variantAttribute  = "data-theme-variant"
	cssVarsAttribute  = "style"
	tokenClassSuffix  = ".class"
	cssVarTokenPrefix = "--"
)

// ThemeContext is the renderer-facing view of a theme configuration.
type ThemeContext struct {
	Name         string
	Variant      string
	Partials     map[string]string
	Tokens       map[string]string
	CSSVars      map[string]string
	CSSVarsStyle string
	assetURL     func(string) string
}

// NewThemeContext copies cfg. A nil cfg yields an empty context.
func NewThemeContext(cfg *theme.RendererConfig) ThemeContext {
	if cfg == nil {
		return ThemeContext{}
	}
	ctx := ThemeContext{
		Name:     cfg.Theme,
		Variant:  cfg.Variant,
		Partials: copyStringMap(cfg.Partials),
		Tokens:   copyStringMap(cfg.Tokens),
		CSSVars:  copyStringMap(cfg.CSSVars),
		assetURL: cfg.AssetURL,
	}
	ctx.CSSVarsStyle = CSSVarsStyle(ctx.CSSVars)
	return ctx
}

// Empty reports whether no theme is configured.
func (c ThemeContext) Empty() bool {
	return c.Name == "" && len(c.Tokens) == 0 && len(c.CSSVars) == 0 && len(c.Partials) == 0
}

// Token returns a token value or def.
func (c ThemeContext) Token(key, def string) string {
	if value, ok := c.Tokens[key]; ok {
		return value
	}
	return def
}

// Partial returns the template registered for name or fallback.
func (c ThemeContext) Partial(name, fallback string) string {
	if value := strings.TrimSpace(c.Partials[name]); value != "" {
		return value
	}
	return fallback
}

// AssetURL resolves an asset key. Empty when no resolver is configured.
func (c ThemeContext) AssetURL(key string) string {
	if c.assetURL == nil || key == "" {
		return ""
	}
	return c.assetURL(key)
}

// Decorate applies theme tokens to a resolved view: class tokens per
// element, data-theme attributes and CSS variables on the table.
func (c ThemeContext) Decorate(view *table.View) error {
	if view == nil || c.Empty() {
		return nil
	}
	if c.Name != "" {
		if err := view.Attributes.Set(themeAttribute, c.Name); err != nil {
			return err
		}
	}
	if c.Variant != "" {
		if err := view.Attributes.Set(variantAttribute, c.Variant); err != nil {
			return err
		}
	}
	if c.CSSVarsStyle != "" {
		existing := strings.TrimSpace(view.Attributes.Value(cssVarsAttribute, ""))
		style := c.CSSVarsStyle
		if existing != "" {
			style = strings.TrimSuffix(existing, ";") + "; " + style
		}
		if err := view.Attributes.Set(cssVarsAttribute, style); err != nil {
			return err
		}
	}
	if err := c.addTokenClass(view.Attributes.Add, TokenTableClass); err != nil {
		return err
	}

	for gi := range view.Groups {
		group := &view.Groups[gi]
		if err := c.addTokenClass(group.Attributes.Add, group.Tag+tokenClassSuffix); err != nil {
			return err
		}
		for ri := range group.Rows {
			row := &group.Rows[ri]
			if err := c.addTokenClass(row.Attributes.Add, TokenRowClass); err != nil {
				return err
			}
			for ci := range row.Cells {
				cell := &row.Cells[ci]
				if err := c.addTokenClass(cell.Attributes.Add, cell.Tag+tokenClassSuffix); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c ThemeContext) addTokenClass(add func(string, bool, ...string) error, token string) error {
	classes := strings.TrimSpace(c.Tokens[token])
	if classes == "" {
		return nil
	}
	return add("class", false, classes)
}

// CSSVarsStyle serialises CSS variables as a sorted inline style.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	parts := make([]string, 0, len(vars))
	for _, key := range sortedKeys(vars) {
		name := key
		if !strings.HasPrefix(name, cssVarTokenPrefix) {
			name = cssVarTokenPrefix + name
		}
		parts = append(parts, name+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}

// CSSVarsFromTokens derives "--token-name" variables from tokens, skipping
// element class tokens.
func CSSVarsFromTokens(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		if strings.HasSuffix(key, tokenClassSuffix) {
			continue
		}
		name := strings.NewReplacer(".", "-", "_", "-", " ", "-").Replace(strings.TrimSpace(key))
		if name == "" {
			continue
		}
		out[cssVarTokenPrefix+name] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
