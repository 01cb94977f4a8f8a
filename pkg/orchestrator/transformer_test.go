package orchestrator_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tablegen/pkg/orchestrator"
	"github.com/goliatone/go-tablegen/pkg/tabledef"
)

func TestJSONPresetTransformerFromFS(t *testing.T) {
	transformer, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS("testdata"), "preset.json")
	if err != nil {
		t.Fatalf("new json transformer: %v", err)
	}

	def := tabledef.Definition{
		Name:    "users",
		Classes: []string{"table"},
		Columns: []tabledef.Column{{Key: "name"}, {Key: "email"}, {Key: "internal_id"}},
	}
	if err := transformer.Transform(context.Background(), &def); err != nil {
		t.Fatalf("apply transformer: %v", err)
	}

	if def.Caption != "Team" || def.Attributes["data-sortable"] != "true" {
		t.Fatalf("table patch missing: %+v", def)
	}
	if diff := cmp.Diff([]string{"table", "is-compact"}, def.Classes); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	if def.Columns[1].Header != "Contact" || def.Columns[1].CellAttributes["class"] != "mono" {
		t.Fatalf("column patch missing: %+v", def.Columns[1])
	}
	if !def.Columns[2].Hidden {
		t.Fatalf("expected internal_id hidden")
	}
}

func TestJSONPresetTransformerUnknownColumn(t *testing.T) {
	transformer, err := orchestrator.NewJSONPresetTransformer([]byte(`{"users":{"columns":{"nope":{"header":"x"}}}}`))
	if err != nil {
		t.Fatalf("new json transformer: %v", err)
	}
	def := tabledef.Definition{Name: "users", Columns: []tabledef.Column{{Key: "name"}}}
	if err := transformer.Transform(context.Background(), &def); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected unknown column error, got %v", err)
	}

	if _, err := orchestrator.NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
}

func TestOrchestrator_TransformerErrorAborts(t *testing.T) {
	transformer := orchestrator.TransformerFunc(func(context.Context, *tabledef.Definition) error {
		return fmt.Errorf("boom")
	})

	orch := orchestrator.New(
		orchestrator.WithDefinitionsFS(os.DirFS("testdata/defs")),
		orchestrator.WithTransformer(transformer),
	)

	_, err := orch.Generate(context.Background(), orchestrator.Request{Name: "users"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestTransformersRunInOrder(t *testing.T) {
	var calls []string
	chain := orchestrator.Transformers{
		orchestrator.TransformerFunc(func(_ context.Context, def *tabledef.Definition) error {
			calls = append(calls, "first")
			def.Caption = "one"
			return nil
		}),
		nil,
		orchestrator.TransformerFunc(func(_ context.Context, def *tabledef.Definition) error {
			calls = append(calls, "second:"+def.Caption)
			return nil
		}),
	}
	if err := chain.Transform(context.Background(), &tabledef.Definition{}); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if diff := cmp.Diff([]string{"first", "second:one"}, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}
