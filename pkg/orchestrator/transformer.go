package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-tablegen/pkg/tabledef"
)

// Transformer mutates a definition before the table is built.
// Implementations can rename headers, hide columns or attach attributes.
type Transformer interface {
	Transform(ctx context.Context, def *tabledef.Definition) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, def *tabledef.Definition) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, def *tabledef.Definition) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, def)
}

// Transformers runs several transformers in order.
type Transformers []Transformer

func (ts Transformers) Transform(ctx context.Context, def *tabledef.Definition) error {
	for _, t := range ts {
		if t == nil {
			continue
		}
		if err := t.Transform(ctx, def); err != nil {
			return err
		}
	}
	return nil
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Presets are keyed by table name; "*" applies to every table:
//
//	{
//	  "users": {
//	    "caption": "Team",
//	    "attributes": {"data-sortable": "true"},
//	    "classes": ["is-compact"],
//	    "columns": {
//	      "email": {"header": "Contact", "cellAttributes": {"class": "mono"}},
//	      "internal_id": {"hidden": true}
//	    }
//	  }
//	}
type JSONPresetTransformer struct {
	document map[string]jsonTablePatch
}

type jsonTablePatch struct {
	Caption    string                     `json:"caption"`
	Attributes map[string]string          `json:"attributes"`
	Classes    []string                   `json:"classes"`
	Sanitize   []string                   `json:"sanitize"`
	Columns    map[string]jsonColumnPatch `json:"columns"`
}

type jsonColumnPatch struct {
	Header         string            `json:"header"`
	Hidden         *bool             `json:"hidden"`
	Presenter      string            `json:"presenter"`
	Sanitize       []string          `json:"sanitize"`
	Attributes     map[string]string `json:"attributes"`
	CellAttributes map[string]string `json:"cellAttributes"`
}

const wildcardTable = "*"

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document map[string]jsonTablePatch
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the wildcard preset, then the preset named after the
// definition.
func (t *JSONPresetTransformer) Transform(ctx context.Context, def *tabledef.Definition) error {
	if def == nil {
		return errors.New("json preset transformer: definition is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, key := range []string{wildcardTable, def.Name} {
		patch, ok := t.document[key]
		if !ok {
			continue
		}
		if err := applyTablePatch(def, patch, key == wildcardTable); err != nil {
			return err
		}
	}
	return nil
}

func applyTablePatch(def *tabledef.Definition, patch jsonTablePatch, lenient bool) error {
	if patch.Caption != "" {
		def.Caption = patch.Caption
	}
	if len(patch.Attributes) > 0 {
		def.Attributes = mergeStringMap(def.Attributes, patch.Attributes)
	}
	def.Classes = append(def.Classes, patch.Classes...)
	if len(patch.Sanitize) > 0 {
		def.Sanitize = append([]string(nil), patch.Sanitize...)
	}

	for key, colPatch := range patch.Columns {
		idx := columnIndex(def.Columns, key)
		if idx < 0 {
			if lenient {
				continue
			}
			return fmt.Errorf("json preset transformer: table %q column %q not found", def.Name, key)
		}
		applyColumnPatch(&def.Columns[idx], colPatch)
	}
	return nil
}

func applyColumnPatch(col *tabledef.Column, patch jsonColumnPatch) {
	if patch.Header != "" {
		col.Header = patch.Header
	}
	if patch.Hidden != nil {
		col.Hidden = *patch.Hidden
	}
	if patch.Presenter != "" {
		col.Presenter = patch.Presenter
	}
	if len(patch.Sanitize) > 0 {
		col.Sanitize = append([]string(nil), patch.Sanitize...)
	}
	if len(patch.Attributes) > 0 {
		col.Attributes = mergeStringMap(col.Attributes, patch.Attributes)
	}
	if len(patch.CellAttributes) > 0 {
		col.CellAttributes = mergeStringMap(col.CellAttributes, patch.CellAttributes)
	}
}

func columnIndex(columns []tabledef.Column, key string) int {
	key = strings.TrimSpace(key)
	for i, col := range columns {
		if col.Key == key {
			return i
		}
	}
	return -1
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
