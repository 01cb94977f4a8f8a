// Package openapi derives table definitions from OpenAPI 3 documents. Columns
// come from a component schema's properties or from the array items of an
// operation's success response.
package openapi

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-tablegen/pkg/errs"
)

// Option configures document loading.
type Option func(*options)

type options struct {
	validate     bool
	externalRefs bool
}

// WithValidation validates the document after loading.
func WithValidation() Option {
	return func(o *options) {
		o.validate = true
	}
}

// WithExternalRefs allows $ref values that point at other files.
func WithExternalRefs() Option {
	return func(o *options) {
		o.externalRefs = true
	}
}

// Document wraps a loaded OpenAPI specification.
type Document struct {
	spec     *openapi3.T
	location string
}

// LoadFile reads a JSON or YAML document from disk.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Document, error) {
	cfg := newOptions(opts)
	loader := newLoader(ctx, cfg)
	spec, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, errs.CodeInvalidArgument, "openapi: load %s", path)
	}
	return finish(ctx, spec, path, cfg)
}

// LoadFS reads a document from fsys.
func LoadFS(ctx context.Context, fsys fs.FS, path string, opts ...Option) (*Document, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return LoadData(ctx, raw, path, opts...)
}

// LoadData parses raw document bytes. location is only used in errors.
func LoadData(ctx context.Context, raw []byte, location string, opts ...Option) (*Document, error) {
	if len(raw) == 0 {
		return nil, errs.New(errs.CodeInvalidArgument, "openapi: document payload is empty")
	}
	cfg := newOptions(opts)
	loader := newLoader(ctx, cfg)

	var (
		spec *openapi3.T
		err  error
	)
	if u, parseErr := url.Parse(location); parseErr == nil && location != "" {
		spec, err = loader.LoadFromDataWithPath(raw, u)
	} else {
		spec, err = loader.LoadFromData(raw)
	}
	if err != nil {
		return nil, errs.Wrapf(err, errs.CodeInvalidArgument, "openapi: load %s", location)
	}
	return finish(ctx, spec, location, cfg)
}

func newOptions(opts []Option) options {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func newLoader(ctx context.Context, cfg options) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = cfg.externalRefs
	return loader
}

func finish(ctx context.Context, spec *openapi3.T, location string, cfg options) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, errs.Wrapf(err, errs.CodeInvalidArgument, "openapi: validate %s", location)
		}
	}
	return &Document{spec: spec, location: location}, nil
}

// Location returns where the document was loaded from.
func (d *Document) Location() string {
	return d.location
}

// Title returns info.title.
func (d *Document) Title() string {
	if d.spec == nil || d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// SchemaNames lists component schema names, sorted.
func (d *Document) SchemaNames() []string {
	if d.spec == nil || d.spec.Components == nil {
		return nil
	}
	out := make([]string, 0, len(d.spec.Components.Schemas))
	for name := range d.spec.Components.Schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// OperationIDs lists operations that return a list, sorted. Operations
// without an id are listed as "get:/path".
func (d *Document) OperationIDs() []string {
	var out []string
	d.eachOperation(func(id string, op *openapi3.Operation) {
		if _, err := listItems(op); err == nil {
			out = append(out, id)
		}
	})
	sort.Strings(out)
	return out
}

func (d *Document) schema(name string) (*openapi3.Schema, error) {
	if d.spec == nil || d.spec.Components == nil {
		return nil, errs.Newf(errs.CodeNotFound, "openapi: schema %q not found", name)
	}
	ref, ok := d.spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, errs.Newf(errs.CodeNotFound, "openapi: schema %q not found", name).WithDetail("schema", name)
	}
	return ref.Value, nil
}

func (d *Document) operation(id string) (*openapi3.Operation, error) {
	var found *openapi3.Operation
	d.eachOperation(func(opID string, op *openapi3.Operation) {
		if opID == id {
			found = op
		}
	})
	if found == nil {
		return nil, errs.Newf(errs.CodeNotFound, "openapi: operation %q not found", id).WithDetail("operation", id)
	}
	return found, nil
}

func (d *Document) eachOperation(fn func(id string, op *openapi3.Operation)) {
	if d.spec == nil || d.spec.Paths == nil {
		return
	}
	for path, item := range d.spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			fn(id, op)
		}
	}
}

// listItems returns the item schema of an operation's success response.
// Arrays yield their items; an object wrapping exactly one array of objects
// (a {"data": [...]} envelope) yields that array's items.
func listItems(op *openapi3.Operation) (*openapi3.Schema, error) {
	if op == nil || op.Responses == nil {
		return nil, errs.New(errs.CodeNotFound, "openapi: operation has no responses")
	}
	resp := op.Responses.Status(200)
	if resp == nil {
		resp = op.Responses.Default()
	}
	if resp == nil || resp.Value == nil {
		return nil, errs.New(errs.CodeNotFound, "openapi: operation has no success response")
	}
	mt := resp.Value.Content.Get("application/json")
	if mt == nil {
		for _, candidate := range resp.Value.Content {
			mt = candidate
			break
		}
	}
	if mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil, errs.New(errs.CodeNotFound, "openapi: success response has no schema")
	}

	schema := mt.Schema.Value
	if isType(schema, openapi3.TypeArray) {
		if schema.Items == nil || schema.Items.Value == nil {
			return nil, errs.New(errs.CodeInvalidArgument, "openapi: array response has no items")
		}
		return schema.Items.Value, nil
	}

	var envelope *openapi3.Schema
	for _, prop := range schema.Properties {
		if prop == nil || prop.Value == nil || !isType(prop.Value, openapi3.TypeArray) {
			continue
		}
		items := prop.Value.Items
		if items == nil || items.Value == nil || !isType(items.Value, openapi3.TypeObject) {
			continue
		}
		if envelope != nil {
			return nil, errs.New(errs.CodeInvalidArgument, "openapi: response wraps more than one list")
		}
		envelope = items.Value
	}
	if envelope == nil {
		return nil, errs.New(errs.CodeInvalidArgument, "openapi: success response is not a list")
	}
	return envelope, nil
}

func isType(schema *openapi3.Schema, typ string) bool {
	return firstType(schema) == typ
}

func firstType(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil {
		if schema != nil && len(schema.Properties) > 0 {
			return openapi3.TypeObject
		}
		return ""
	}
	for _, typ := range schema.Type.Slice() {
		if typ != openapi3.TypeNull {
			return typ
		}
	}
	return ""
}
