package template

import (
	"io"
)

// TemplateRenderer renders a named template with data. The output is
// returned and also written to each provided writer.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
