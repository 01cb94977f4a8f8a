package tablegen

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-tablegen/pkg/openapi"
	"github.com/goliatone/go-tablegen/pkg/tabledef"
)

// LoadDefinitions reads every .json, .yaml and .yml definition file in fsys.
func LoadDefinitions(fsys fs.FS) (*tabledef.Store, error) {
	return tabledef.LoadFS(fsys)
}

// DefinitionFromOpenAPI derives a definition from a component schema in the
// OpenAPI document at path.
func DefinitionFromOpenAPI(ctx context.Context, path, schema string, options ...openapi.Option) (Definition, error) {
	doc, err := openapi.LoadFile(ctx, path, options...)
	if err != nil {
		return Definition{}, err
	}
	return doc.FromSchema(schema)
}
