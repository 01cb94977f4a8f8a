package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-tablegen/pkg/tabledef"
)

// ExtensionKey is the vendor extension read from schemas and properties.
//
//	x-tablegen:
//	  header: Created
//	  hidden: true
//	  order: 10
//	  presenter: datetime
//	  tags: [audit]
//	  sanitize: [escape]
const ExtensionKey = "x-tablegen"

// maxDepth bounds how far nested objects are flattened into dot keys.
const maxDepth = 3

// FromSchema builds a definition from the properties of a component schema.
func (d *Document) FromSchema(name string) (tabledef.Definition, error) {
	schema, err := d.schema(name)
	if err != nil {
		return tabledef.Definition{}, err
	}
	return buildDefinition(name, schema)
}

// FromOperation builds a definition from the list items returned by the
// operation.
func (d *Document) FromOperation(operationID string) (tabledef.Definition, error) {
	op, err := d.operation(operationID)
	if err != nil {
		return tabledef.Definition{}, err
	}
	items, err := listItems(op)
	if err != nil {
		return tabledef.Definition{}, fmt.Errorf("openapi: operation %q: %w", operationID, err)
	}
	def, err := buildDefinition(operationID, items)
	if err != nil {
		return tabledef.Definition{}, err
	}
	if def.Caption == "" {
		def.Caption = op.Summary
	}
	return def, nil
}

type orderedColumn struct {
	column tabledef.Column
	order  int
	seq    int
}

func buildDefinition(name string, schema *openapi3.Schema) (tabledef.Definition, error) {
	if firstType(schema) != openapi3.TypeObject {
		return tabledef.Definition{}, fmt.Errorf("openapi: schema %q is not an object", name)
	}

	ext := extension(schema.Extensions)
	def := tabledef.Definition{
		Name:    name,
		Caption: firstNonEmpty(ext.Header, schema.Title),
	}

	var collected []orderedColumn
	collect(&collected, "", schema, 0)
	sort.SliceStable(collected, func(i, j int) bool {
		if collected[i].order != collected[j].order {
			return collected[i].order < collected[j].order
		}
		return collected[i].seq < collected[j].seq
	})
	for _, entry := range collected {
		def.Columns = append(def.Columns, entry.column)
	}
	if len(def.Columns) == 0 {
		return tabledef.Definition{}, fmt.Errorf("openapi: schema %q has no displayable properties", name)
	}
	return def, nil
}

// collect walks properties in name order. Nested objects are flattened into
// dot keys; arrays of objects are skipped.
func collect(out *[]orderedColumn, prefix string, schema *openapi3.Schema, depth int) {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := mergedSchema(ref.Value)
		ext := extension(prop.Extensions)
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		typ := firstType(prop)
		switch {
		case typ == openapi3.TypeObject && len(prop.Properties) > 0:
			if depth+1 < maxDepth && !ext.Hidden {
				collect(out, key, prop, depth+1)
			}
			continue
		case typ == openapi3.TypeArray && prop.Items != nil && firstType(prop.Items.Value) == openapi3.TypeObject:
			continue
		}

		col := tabledef.Column{
			Key:       key,
			Header:    firstNonEmpty(ext.Header, prop.Title, tabledef.HeaderFromKey(key)),
			Type:      typ,
			Format:    prop.Format,
			Enum:      enumStrings(prop.Enum),
			Default:   prop.Default,
			Presenter: ext.Presenter,
			Hidden:    ext.Hidden || prop.WriteOnly,
			Tags:      ext.Tags,
			Sanitize:  ext.Sanitize,
		}
		*out = append(*out, orderedColumn{column: col, order: ext.Order, seq: len(*out)})
	}
}

// mergedSchema folds allOf members into a shallow copy so $ref + overrides
// compositions expose their properties and extensions.
func mergedSchema(schema *openapi3.Schema) *openapi3.Schema {
	if len(schema.AllOf) == 0 {
		return schema
	}
	merged := *schema
	merged.Properties = make(openapi3.Schemas, len(schema.Properties))
	for k, v := range schema.Properties {
		merged.Properties[k] = v
	}
	merged.Extensions = make(map[string]any, len(schema.Extensions))
	for _, ref := range schema.AllOf {
		if ref == nil || ref.Value == nil {
			continue
		}
		member := mergedSchema(ref.Value)
		if merged.Type == nil {
			merged.Type = member.Type
		}
		if merged.Format == "" {
			merged.Format = member.Format
		}
		if merged.Title == "" {
			merged.Title = member.Title
		}
		for k, v := range member.Properties {
			if _, ok := merged.Properties[k]; !ok {
				merged.Properties[k] = v
			}
		}
		for k, v := range member.Extensions {
			merged.Extensions[k] = v
		}
	}
	for k, v := range schema.Extensions {
		merged.Extensions[k] = v
	}
	return &merged
}

type columnExtension struct {
	Header    string
	Presenter string
	Hidden    bool
	Order     int
	Tags      []string
	Sanitize  []string
}

func extension(raw map[string]any) columnExtension {
	var ext columnExtension
	values, ok := raw[ExtensionKey].(map[string]any)
	if !ok {
		return ext
	}
	ext.Header = stringValue(values["header"])
	ext.Presenter = stringValue(values["presenter"])
	if hidden, ok := values["hidden"].(bool); ok {
		ext.Hidden = hidden
	}
	switch order := values["order"].(type) {
	case float64:
		ext.Order = int(order)
	case int:
		ext.Order = order
	}
	ext.Tags = stringSlice(values["tags"])
	ext.Sanitize = stringSlice(values["sanitize"])
	return ext
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := stringValue(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func enumStrings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
