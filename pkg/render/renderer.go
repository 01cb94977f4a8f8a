package render

import (
	"context"

	"github.com/goliatone/go-tablegen/pkg/table"
)

// Renderer converts a table into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, t *table.Table, options RenderOptions) ([]byte, error)
}
