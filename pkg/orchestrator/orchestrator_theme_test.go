package orchestrator

import (
	"context"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/errs"
	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/table"
	"github.com/goliatone/go-tablegen/pkg/tabledef"
)

func TestOrchestrator_PassesThemeConfigToRenderer(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
	}

	selection := &theme.Selection{
		Theme:    "acme",
		Variant:  "custom-variant",
		Manifest: manifest,
	}

	selector := &stubThemeSelector{selection: selection}

	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(
		WithRegistry(registry),
		WithDefaultRenderer(renderer.Name()),
		WithThemeSelector(selector),
	)

	_, err := orch.Generate(context.Background(), Request{
		Definition:   stubDefinition(),
		Renderer:     renderer.Name(),
		ThemeName:    "custom-theme",
		ThemeVariant: "custom-variant",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(selector.calls) != 1 {
		t.Fatalf("expected selector called once, got %d", len(selector.calls))
	}
	if selector.calls[0].name != "custom-theme" || selector.calls[0].variant != "custom-variant" {
		t.Fatalf("unexpected selector args: %+v", selector.calls[0])
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != selection.Theme || cfg.Variant != selection.Variant {
		t.Fatalf("theme mismatch: got %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.AssetURL == nil {
		t.Fatalf("expected AssetURL resolver present")
	}
	if got := cfg.Partials[render.PartialTable]; got != defaultThemeFallbacks()[render.PartialTable] {
		t.Fatalf("partials not merged with fallbacks: got %s", got)
	}
	if cfg.Tokens["brand"] != manifest.Tokens["brand"] {
		t.Fatalf("tokens not propagated")
	}
	if cfg.CSSVars["--brand"] != manifest.Tokens["brand"] {
		t.Fatalf("css vars not derived from tokens")
	}
}

func TestOrchestrator_WithThemesUsesDefaults(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		Templates: map[string]string{
			render.PartialTable: "themes/acme/table.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				render.AssetStylesheet: "tables.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"tables.caption": "themes/acme/dark/caption.tmpl",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"tables.vendor": "vendor.dark.js",
					},
				},
			},
		},
	}

	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(
		WithRegistry(registry),
		WithDefaultRenderer(renderer.Name()),
		WithThemes("acme", "dark", manifest),
	)

	if _, err := orch.Generate(context.Background(), Request{Definition: stubDefinition()}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("theme mismatch: got %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials[render.PartialTable] != "themes/acme/table.tmpl" {
		t.Fatalf("expected base template override, got %s", cfg.Partials[render.PartialTable])
	}
	if cfg.Partials["tables.caption"] != "themes/acme/dark/caption.tmpl" {
		t.Fatalf("expected variant template override, got %s", cfg.Partials["tables.caption"])
	}
	if cfg.Tokens["brand"] != "#654321" {
		t.Fatalf("tokens not merged with variant override, got %s", cfg.Tokens["brand"])
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived from variant tokens, got %s", cfg.CSSVars["--brand"])
	}
	if got := cfg.AssetURL("tables.vendor"); got != "/assets/themes/acme/vendor.dark.js" {
		t.Fatalf("unexpected vendor asset url: %s", got)
	}
	if got := cfg.AssetURL(render.AssetStylesheet); got != "/assets/themes/acme/tables.css" {
		t.Fatalf("unexpected stylesheet asset url: %s", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %s", got)
	}
}

func TestOrchestrator_ExplicitThemeOptionWins(t *testing.T) {
	selector := &stubThemeSelector{}
	renderer := &captureRenderer{}

	orch := New(
		WithRegistry(render.NewRegistry(renderer)),
		WithThemeSelector(selector),
	)
	explicit := &theme.RendererConfig{Theme: "inline"}
	_, err := orch.Generate(context.Background(), Request{
		Definition:    stubDefinition(),
		RenderOptions: render.RenderOptions{Theme: explicit},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(selector.calls) != 0 {
		t.Fatalf("expected selector bypassed")
	}
	if renderer.options.Theme != explicit {
		t.Fatalf("expected explicit theme passed through")
	}
}

func TestManifestSelector(t *testing.T) {
	acme := &theme.Manifest{Name: "acme", Variants: map[string]theme.Variant{"dark": {}}}
	plain := &theme.Manifest{Name: "plain"}

	selector, err := NewManifestSelector("", "dark", acme, plain)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if err := selector.Register(&theme.Manifest{Name: "acme"}); !errs.HasCode(err, errs.CodeInvalidArgument) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	if sel, err := selector.Select("", ""); err != nil || sel != nil {
		t.Fatalf("expected no selection without default theme, got %v %v", sel, err)
	}

	sel, err := selector.Select("acme", "")
	if err != nil || sel.Variant != "dark" {
		t.Fatalf("expected default variant, got %+v %v", sel, err)
	}
	sel, err = selector.Select("plain", "")
	if err != nil || sel.Variant != "" {
		t.Fatalf("expected default variant ignored for plain, got %+v %v", sel, err)
	}
	if _, err := selector.Select("plain", "dark"); !errs.HasCode(err, errs.CodeNotFound) {
		t.Fatalf("expected unknown variant error, got %v", err)
	}
	if _, err := selector.Select("nope", ""); !errs.HasCode(err, errs.CodeNotFound) {
		t.Fatalf("expected unknown theme error, got %v", err)
	}

	single, err := NewManifestSelector("", "", plain)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if sel, _ := single.Select("", ""); sel == nil || sel.Theme != "plain" {
		t.Fatalf("expected lone manifest to become default, got %+v", sel)
	}
}

func stubDefinition() *tabledef.Definition {
	return &tabledef.Definition{
		Name:    "stub",
		Columns: []tabledef.Column{{Key: "name"}},
	}
}

type captureRenderer struct {
	options render.RenderOptions
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, t *table.Table, opts render.RenderOptions) ([]byte, error) {
	r.options = opts
	return []byte(t.String()), nil
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}
