package markup

import (
	"context"
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/table"
	"github.com/goliatone/go-tablegen/pkg/testsupport"
)

func TestRendererMatchesTableRender(t *testing.T) {
	tbl := table.MustNew()
	tbl.SetHeader("Name", "Age")
	tbl.AddRow("Alice", 30)

	out, err := New().Render(context.Background(), tbl, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != tbl.String() {
		t.Fatalf("expected renderer output to match table render\nwant: %s\n got: %s", tbl.String(), out)
	}
}

func TestRendererAppliesThemeAndStylesheet(t *testing.T) {
	tbl := table.MustNew()
	tbl.AddRow("x")

	renderer := New(WithStylesheetURL("/static/tables.css"))
	out, err := renderer.Render(context.Background(), tbl, render.RenderOptions{
		Stylesheet: true,
		Theme: &theme.RendererConfig{
			Theme:  "acme",
			Tokens: map[string]string{render.TokenCellClass: "cell"},
			AssetURL: func(key string) string {
				if key == render.AssetStylesheet {
					return "/themes/acme/tables.css"
				}
				return ""
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<link rel="stylesheet" href="/themes/acme/tables.css">` +
		`<table data-theme="acme"><tbody><tr><td class="cell">x</td></tr></tbody></table>`
	if string(out) != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, out)
	}

	out, _ = renderer.Render(context.Background(), tbl, render.RenderOptions{Stylesheet: true})
	node := testsupport.MustParseTable(t, string(out))
	if testsupport.Text(node) != "x" {
		t.Fatalf("unexpected table text %q", testsupport.Text(node))
	}
}

func TestRendererPropagatesCellErrors(t *testing.T) {
	boom := errors.New("boom")
	tbl := table.MustNew()
	tbl.AddRow(func() (string, error) { return "", boom })

	_, err := New().Render(context.Background(), tbl, render.RenderOptions{})
	var renderErr *table.RenderError
	if !errors.As(err, &renderErr) || !errors.Is(err, boom) {
		t.Fatalf("expected render error wrapping cause, got %v", err)
	}
}

func TestRendererHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Render(ctx, table.MustNew(), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancelled, got %v", err)
	}
}
