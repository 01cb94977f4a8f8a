package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tablegen/pkg/errs"
	"github.com/goliatone/go-tablegen/pkg/tabledef"
	"github.com/goliatone/go-tablegen/pkg/testsupport"
)

func execute(t *testing.T, picker columnPicker, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(picker)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func headerTexts(t *testing.T, markup string) []string {
	t.Helper()
	table := testsupport.MustParseTable(t, markup)
	var out []string
	for _, th := range testsupport.FindAll(table, "th") {
		out = append(out, testsupport.Text(th))
	}
	return out
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, nil,
		"render",
		"--defs", filepath.Join("testdata", "defs"),
		"--table", "users",
		"--data", filepath.Join("testdata", "records.json"),
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if diff := cmp.Diff([]string{"Name", "Email", "Active"}, headerTexts(t, out)); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}

	table := testsupport.MustParseTable(t, out)
	if testsupport.Attr(table, "id") != "users" {
		t.Fatalf("expected id attribute, got %s", out)
	}
	if got := testsupport.Text(testsupport.FindElement(table, "caption")); got != "Users" {
		t.Fatalf("unexpected caption %q", got)
	}
	cells := testsupport.FindAll(table, "td")
	if len(cells) != 6 {
		t.Fatalf("expected 6 cells, got %d in %s", len(cells), out)
	}
	if got := testsupport.Text(cells[0]); got != "Ada <3" {
		t.Fatalf("expected escaped name to round trip, got %q", got)
	}
	if !strings.Contains(out, "Ada &lt;3") {
		t.Fatalf("expected escaped markup, got %s", out)
	}
	if got := testsupport.Text(cells[2]); got != "Yes" {
		t.Fatalf("expected boolean presenter, got %q", got)
	}
	if strings.Contains(out, "secret") || strings.Contains(out, ">x<") {
		t.Fatalf("hidden column rendered: %s", out)
	}
}

func TestRenderCommandRenderersAgree(t *testing.T) {
	base := []string{
		"render",
		"--defs", filepath.Join("testdata", "defs"),
		"--table", "users",
		"--data", filepath.Join("testdata", "records.json"),
	}

	markupOut, err := execute(t, nil, append(base, "--renderer", "markup")...)
	if err != nil {
		t.Fatalf("markup: %v", err)
	}
	vanillaOut, err := execute(t, nil, append(base, "--renderer", "vanilla")...)
	if err != nil {
		t.Fatalf("vanilla: %v", err)
	}
	if markupOut != vanillaOut {
		t.Fatalf("renderer output differs\nmarkup:  %s\nvanilla: %s", markupOut, vanillaOut)
	}
}

func TestRenderCommandConfigThemeAndPresets(t *testing.T) {
	output := filepath.Join(t.TempDir(), "users.html")

	_, err := execute(t, nil,
		"--config", filepath.Join("testdata", "tablegen.toml"),
		"render",
		"--table", "users",
		"--columns", "name,email",
		"--presets", filepath.Join("testdata", "presets.json"),
		"--output", output,
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	markup := string(raw)

	if diff := cmp.Diff([]string{"Name", "E-mail"}, headerTexts(t, markup)); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
	table := testsupport.MustParseTable(t, markup)
	if got := testsupport.Attr(table, "data-theme"); got != "acme" {
		t.Fatalf("expected theme attribute, got %q", got)
	}
	if got := testsupport.Attr(table, "class"); got != "table is-striped" {
		t.Fatalf("expected token classes, got %q", got)
	}
	if !strings.Contains(testsupport.Attr(table, "style"), "--brand: #123456") {
		t.Fatalf("expected css variables, got %q", testsupport.Attr(table, "style"))
	}
	if got := testsupport.Text(testsupport.FindElement(table, "caption")); got != "People" {
		t.Fatalf("expected preset caption, got %q", got)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{
			name: "missing definitions",
			args: []string{"render", "--table", "users"},
			code: errs.CodeConfig,
		},
		{
			name: "unknown table",
			args: []string{"render", "--defs", filepath.Join("testdata", "defs"), "--table", "orders"},
			code: errs.CodeNotFound,
		},
		{
			name: "unknown renderer",
			args: []string{"render", "--defs", filepath.Join("testdata", "defs"), "--table", "users", "--renderer", "pdf"},
			code: errs.CodeNotFound,
		},
		{
			name: "bad records",
			args: []string{"render", "--defs", filepath.Join("testdata", "defs"), "--table", "users", "--data", filepath.Join("testdata", "tablegen.toml")},
			code: errs.CodeInvalidArgument,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, nil, tc.args...)
			if !errs.HasCode(err, tc.code) {
				t.Fatalf("expected %s error, got %v", tc.code, err)
			}
		})
	}

	if _, err := execute(t, nil, "render", "--defs", "testdata/defs"); err == nil {
		t.Fatalf("expected required flag error")
	}
}

func TestReadRecords(t *testing.T) {
	records, err := readRecords(strings.NewReader(`{"name":"Ada"}`), "-")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff([]any{map[string]any{"name": "Ada"}}, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	records, err = readRecords(strings.NewReader("  "), "-")
	if err != nil || records != nil {
		t.Fatalf("expected no records, got %v %v", records, err)
	}
}

type definitionsFile struct {
	Tables map[string]tabledef.Definition `yaml:"tables"`
}

func decodeDefinitions(t *testing.T, out string) definitionsFile {
	t.Helper()
	var doc definitionsFile
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	return doc
}

func TestColumnsCommand(t *testing.T) {
	out, err := execute(t, nil,
		"columns",
		"--openapi", filepath.Join("testdata", "openapi.yaml"),
		"--operation", "listUsers",
		"--name", "users",
	)
	if err != nil {
		t.Fatalf("columns: %v", err)
	}

	doc := decodeDefinitions(t, out)
	def, ok := doc.Tables["users"]
	if !ok {
		t.Fatalf("expected users table, got %s", out)
	}
	want := []string{"id", "active", "address.city", "name", "password", "role", "created_at"}
	if diff := cmp.Diff(want, def.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if def.Caption != "Users" {
		t.Fatalf("expected schema title caption, got %q", def.Caption)
	}
}

func TestColumnsCommandInteractive(t *testing.T) {
	var gotDefaults []string
	picker := func(_ string, options, defaults []string) ([]string, error) {
		gotDefaults = defaults
		return []string{"password", "name"}, nil
	}

	out, err := execute(t, picker,
		"columns",
		"--openapi", filepath.Join("testdata", "openapi.yaml"),
		"--schema", "User",
		"--interactive",
	)
	if err != nil {
		t.Fatalf("columns: %v", err)
	}

	if diff := cmp.Diff([]string{"id", "active", "address.city", "name", "role", "created_at"}, gotDefaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	def := decodeDefinitions(t, out).Tables["User"]
	if diff := cmp.Diff([]string{"name", "password"}, def.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	for _, col := range def.Columns {
		if col.Hidden {
			t.Fatalf("picked column %q still hidden", col.Key)
		}
	}
}

func TestColumnsCommandRequiresSource(t *testing.T) {
	_, err := execute(t, nil, "columns", "--openapi", filepath.Join("testdata", "openapi.yaml"))
	if !errs.HasCode(err, errs.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if !strings.Contains(err.Error(), "listUsers") {
		t.Fatalf("expected available operations in error, got %v", err)
	}
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, nil, "list", "--defs", filepath.Join("testdata", "defs"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", out)
	}
	fields := strings.Fields(lines[1])
	if diff := cmp.Diff([]string{"users", "name,email,active", "users.yaml"}, fields); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}

	out, err = execute(t, nil, "list", "--openapi", filepath.Join("testdata", "openapi.yaml"))
	if err != nil {
		t.Fatalf("list openapi: %v", err)
	}
	for _, want := range []string{"schema     User", "operation  listUsers"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}
