package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-tablegen/pkg/data"
	"github.com/goliatone/go-tablegen/pkg/errs"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
	"github.com/goliatone/go-tablegen/pkg/testsupport"
)

func TestTableRenderHeaderAndBody(t *testing.T) {
	tbl := MustNew()
	tbl.SetHeader("Name", "Age")
	tbl.AddRow("Alice", 30)

	got, err := tbl.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<table><thead><tr><th>Name</th><th>Age</th></tr></thead>" +
		"<tbody><tr><td>Alice</td><td>30</td></tr></tbody></table>"
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}

	// Parse the markup to confirm it is a well-formed table.
	table := testsupport.MustParseTable(t, got)
	if diff := cmp.Diff([]string{"thead", "tbody"}, childTags(table)); diff != "" {
		t.Fatalf("section mismatch (-want +got):\n%s", diff)
	}
	if got := len(testsupport.FindAll(table, "th")); got != 2 {
		t.Fatalf("expected 2 th, got %d", got)
	}
	if got := len(testsupport.FindAll(table, "td")); got != 2 {
		t.Fatalf("expected 2 td, got %d", got)
	}
}

func TestTableRenderOrderAndEmptyGroups(t *testing.T) {
	tbl := MustNew()
	tbl.AddRow("body")
	tbl.SetFooter("foot")
	tbl.SetHeader("head")
	_ = tbl.Group(RoleHeader)

	got, err := tbl.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "<table><thead><tr><th>head</th></tr></thead><tfoot><tr><td>foot</td></tr></tfoot>" +
		"<tbody><tr><td>body</td></tr></tbody></table>"
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}

	empty := MustNew(WithClass("empty"))
	_ = empty.Body()
	if got := empty.String(); got != `<table class="empty"></table>` {
		t.Fatalf("expected empty groups skipped, got %s", got)
	}
}

func TestSanitizerChangesTextNotAttributes(t *testing.T) {
	tbl := MustNew()
	cell := tbl.AddRow().AddCell("alice")
	_ = cell.SetAttribute("title", "alice")
	cell.Sanitize(sanitize.Upper)

	got := tbl.String()
	want := `<table><tbody><tr><td title="alice">ALICE</td></tr></tbody></table>`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestCellSanitizeWithoutArgsEscapes(t *testing.T) {
	tbl := MustNew()
	tbl.AddRow("<b>x</b>").Sanitize()

	if got := tbl.String(); !strings.Contains(got, "<td>&lt;b&gt;x&lt;/b&gt;</td>") {
		t.Fatalf("expected escaped content, got %s", got)
	}
}

func TestDefaultSanitizers(t *testing.T) {
	tbl := MustNew(WithDefaultSanitizers(sanitize.Escape))
	row := tbl.AddRow("<i>a</i>", "<i>b</i>")
	cell, _ := row.Cell(1)
	cell.Sanitize(sanitize.Strict)

	got := tbl.String()
	if !strings.Contains(got, "<td>&lt;i&gt;a&lt;/i&gt;</td><td>b</td>") {
		t.Fatalf("expected defaults only on cells without sanitizers, got %s", got)
	}
}

func TestRenderErrorLocatesCell(t *testing.T) {
	boom := errors.New("boom")
	tbl := MustNew()
	tbl.AddRow("ok")
	row := tbl.AddRow("ok")
	row.AddCell(func() (string, error) { return "", boom })

	_, err := tbl.Render()
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("expected RenderError, got %v", err)
	}
	if renderErr.Group != RoleBody || renderErr.Row != 1 || renderErr.Cell != 1 {
		t.Fatalf("unexpected location %+v", renderErr)
	}
	if !errors.Is(err, boom) || !errors.Is(err, errs.ErrRender) {
		t.Fatalf("expected cause and render code in chain, got %v", err)
	}
	if got := tbl.String(); got != err.Error() {
		t.Fatalf("expected String to return error text, got %q", got)
	}
}

func TestContentKinds(t *testing.T) {
	inner := MustNew()
	inner.AddRow("x")

	tbl := MustNew()
	tbl.AddRow(
		nil,
		func() string { return "fn" },
		func() any { return 7 },
		true,
		inner,
	)

	want := "<table><tbody><tr><td></td><td>fn</td><td>7</td><td>true</td>" +
		"<td><table><tbody><tr><td>x</td></tr></tbody></table></td></tr></tbody></table>"
	if got := tbl.String(); got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestCellPrependAppend(t *testing.T) {
	cell := NewCell(42)
	if err := cell.Prepend("$"); err != nil {
		t.Fatalf("prepend: %v", err)
	}
	if err := cell.Append(".00"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got, _ := cell.Text(); got != "$42.00" {
		t.Fatalf("expected $42.00, got %q", got)
	}
}

func TestDataInheritance(t *testing.T) {
	tbl := MustNew(WithData(map[string]any{"currency": "EUR"}))
	group := tbl.Body()
	_ = group.Data().Set("section", "totals")
	row := tbl.AddRow()
	cell := row.AddCell("x")

	if got := cell.Data().Get("currency", nil); got != "EUR" {
		t.Fatalf("expected table value through the chain, got %v", got)
	}
	if got := cell.Data().Get("section", nil); got != "totals" {
		t.Fatalf("expected group value, got %v", got)
	}

	if err := row.RemoveCell(0); err != nil {
		t.Fatalf("remove cell: %v", err)
	}
	if cell.Data().Has("currency") {
		t.Fatalf("expected detached cell to lose parent data")
	}
}

func TestGroupSetColumnsOnlyOnHeader(t *testing.T) {
	tbl := MustNew()
	if _, err := tbl.Body().SetColumns("a"); !errors.Is(err, errs.ErrBadMethod) {
		t.Fatalf("expected bad method error, got %v", err)
	}
	row, err := tbl.Header().SetColumns("a", "b")
	if err != nil {
		t.Fatalf("set columns: %v", err)
	}
	if row.Len() != 2 || tbl.Header().Len() != 1 {
		t.Fatalf("expected single header row with two cells")
	}
	tbl.SetHeader("c")
	if tbl.Header().Len() != 1 {
		t.Fatalf("expected header replaced, got %d rows", tbl.Header().Len())
	}
}

func TestGroupAddCellUsesCurrentRow(t *testing.T) {
	g := NewGroup(RoleBody)
	g.AddCell("a")
	g.AddCells("b", "c")
	g.AddRow()
	g.AddCell("d")

	if g.Len() != 2 {
		t.Fatalf("expected two rows, got %d", g.Len())
	}
	first, _ := g.Row(0)
	second, _ := g.Row(1)
	if first.Len() != 3 || second.Len() != 1 {
		t.Fatalf("unexpected cell counts %d and %d", first.Len(), second.Len())
	}
}

func TestIndexErrors(t *testing.T) {
	g := NewGroup(RoleBody)
	if _, err := g.Row(0); !errors.Is(err, errs.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds for row, got %v", err)
	}
	row := g.AddRow("a")
	if _, err := row.Cell(3); !errors.Is(err, errs.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds for cell, got %v", err)
	}
	if err := g.RemoveRow(-1); !errors.Is(err, errs.ErrOutOfBounds) {
		t.Fatalf("expected out of bounds for remove, got %v", err)
	}
}

func TestSkipCellsAddsAtLeastOne(t *testing.T) {
	row := NewRow("a")
	row.SkipCells(0)
	row.SkipCells(2)
	if row.Len() != 4 {
		t.Fatalf("expected 4 cells, got %d", row.Len())
	}
}

func TestRowSanitizeColumns(t *testing.T) {
	tbl := MustNew()
	tbl.AddRow(" a ", "b").SanitizeColumns(map[int][]sanitize.Func{
		0: {sanitize.Trim, sanitize.Upper},
		9: {sanitize.Lower},
	})
	if got := tbl.String(); got != "<table><tbody><tr><td>A</td><td>b</td></tr></tbody></table>" {
		t.Fatalf("unexpected render %s", got)
	}
}

func TestHydrateFromColumns(t *testing.T) {
	type user struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Active bool   `json:"active"`
	}

	tbl := MustNew(WithColumns(
		Column{Key: "name", Header: "Name", HeaderAttributes: map[string]string{"scope": "col"}},
		Column{
			Key:    "active",
			Header: "Status",
			Filter: func(value any, rec *data.Container) (any, error) {
				if value == true {
					return "on (" + rec.String("name", "") + ")", nil
				}
				return "off", nil
			},
			CellClasses: []string{"status"},
		},
		Column{Key: "team.name", Header: "Team", Default: "n/a"},
		Column{Header: "Actions"},
	))

	err := tbl.Hydrate(
		user{Name: "Ada", Active: true},
		map[string]any{"name": "Grace", "team": map[string]any{"name": "Navy"}},
	)
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	want := `<table><thead><tr><th scope="col">Name</th><th>Status</th><th>Team</th><th>Actions</th></tr></thead>` +
		`<tbody><tr><td>Ada</td><td class="status">on (Ada)</td><td>n/a</td><td></td></tr>` +
		`<tr><td>Grace</td><td class="status">off</td><td>Navy</td><td></td></tr></tbody></table>`
	if got := tbl.String(); got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}

	row, _ := tbl.Body().Row(0)
	cell, _ := row.Cell(0)
	if got := cell.Data().Get("email", "missing"); got != "" {
		t.Fatalf("expected cells to read record values, got %v", got)
	}
}

func TestHydrateFailureLeavesBodyUnchanged(t *testing.T) {
	boom := errors.New("boom")
	tbl := MustNew(WithColumns(Column{
		Key:    "n",
		Header: "N",
		Filter: func(value any, _ *data.Container) (any, error) {
			if value == "bad" {
				return nil, boom
			}
			return value, nil
		},
	}))
	tbl.AddRow("existing")

	err := tbl.Hydrate(map[string]any{"n": "a"}, map[string]any{"n": "b"}, map[string]any{"n": "bad"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected filter error, got %v", err)
	}
	if got := tbl.Body().Len(); got != 1 {
		t.Fatalf("expected body to keep 1 row after failed hydrate, got %d", got)
	}
	want := `<table><thead><tr><th>N</th></tr></thead><tbody><tr><td>existing</td></tr></tbody></table>`
	if got := tbl.String(); got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestHydrateRequiresColumns(t *testing.T) {
	tbl := MustNew()
	if err := tbl.Hydrate(map[string]any{}); err == nil {
		t.Fatalf("expected error without columns")
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{"thead": RoleHeader, "Header": RoleHeader, "tfoot": RoleFooter, "body": RoleBody, "": RoleBody}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil || got != want {
			t.Fatalf("ParseRole(%q): want %v, got %v (%v)", in, want, got, err)
		}
	}
	if _, err := ParseRole("sidebar"); !errors.Is(err, errs.ErrBadMethod) {
		t.Fatalf("expected bad method for unknown role, got %v", err)
	}
}

func TestRegistryInstance(t *testing.T) {
	reg := NewRegistry(WithClass("table"))
	first, err := reg.Instance("users")
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	second, _ := reg.Instance("users", WithClass("ignored"))
	if first != second {
		t.Fatalf("expected same instance")
	}
	if first.HasClass("ignored") || !first.HasClass("table") {
		t.Fatalf("unexpected classes %q", first.Attribute("class", ""))
	}
	if _, err := reg.Get("orders"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, _ = reg.Instance("orders")
	if diff := cmp.Diff([]string{"orders", "users"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	reg.Remove("orders")
	if _, err := reg.Get("orders"); err == nil {
		t.Fatalf("expected removed instance")
	}
}

func TestRegistryTrimsNames(t *testing.T) {
	reg := NewRegistry()
	created, err := reg.Instance(" users ")
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	got, err := reg.Get(" users ")
	if err != nil || got != created {
		t.Fatalf("expected padded lookup to find the instance, got %v (%v)", got, err)
	}
	reg.Remove("users  ")
	if _, err := reg.Get("users"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected padded remove to drop the instance, got %v", err)
	}
}

func TestWithDataKeepsSortedKeyOrder(t *testing.T) {
	values := map[string]any{"zeta": 1, "alpha": 2, "mid": 3, "beta": 4, "omega": 5}
	for i := 0; i < 10; i++ {
		tbl := MustNew(WithData(values))
		if diff := cmp.Diff([]string{"alpha", "beta", "mid", "omega", "zeta"}, tbl.Data().Keys()); diff != "" {
			t.Fatalf("keys mismatch (-want +got):\n%s", diff)
		}
	}
}

func childTags(n *html.Node) []string {
	var out []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c.Data)
		}
	}
	return out
}
