package tablegen

import (
	"io/fs"

	"github.com/goliatone/go-tablegen/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// StylesheetFS exposes the default table stylesheet, served as
// vanilla.StylesheetName.
//
// Typical mount:
//
//	mux.Handle("/tables/",
//	  http.StripPrefix("/tables/",
//	    http.FileServerFS(tablegen.StylesheetFS()),
//	  ),
//	)
func StylesheetFS() fs.FS {
	return vanilla.AssetsFS()
}
