package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-tablegen/pkg/errs"
	"github.com/goliatone/go-tablegen/pkg/presenters"
	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/renderers/markup"
	"github.com/goliatone/go-tablegen/pkg/renderers/vanilla"
	"github.com/goliatone/go-tablegen/pkg/sanitize"
	"github.com/goliatone/go-tablegen/pkg/table"
	"github.com/goliatone/go-tablegen/pkg/tabledef"
)

const defaultRendererName = markup.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithDefinitions supplies a loaded definition store.
func WithDefinitions(store *tabledef.Store) Option {
	return func(o *Orchestrator) {
		o.definitions = store
	}
}

// WithDefinitionsFS loads definitions from fsys when the orchestrator is
// constructed. Load errors surface on the first Generate call.
func WithDefinitionsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.definitionsFS = fsys
	}
}

// WithSanitizers resolves sanitizer names against registry.
func WithSanitizers(registry *sanitize.Registry) Option {
	return func(o *Orchestrator) {
		o.sanitizers = registry
	}
}

// WithPresenters applies presenter resolution while building tables. Pass
// nil to disable presenters.
func WithPresenters(registry *presenters.Registry) Option {
	return func(o *Orchestrator) {
		o.presenters = registry
		o.presentersSpecified = true
	}
}

// WithThemeSelector resolves themes through selector on every request.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemes builds a ManifestSelector from manifests, falling back to
// defaultTheme and defaultVariant when a request names none.
func WithThemes(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) Option {
	return func(o *Orchestrator) {
		selector, err := NewManifestSelector(defaultTheme, defaultVariant, manifests...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: themes: %w", err)
			return
		}
		o.themeSelector = selector
	}
}

// WithTransformer registers a Transformer that mutates definitions after
// column selection and before the table is built.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithTranslator sets the translator used for captionKey and headerKey
// labels and the template translate helper when a request carries none.
func WithTranslator(t render.Translator, onMissing render.MissingTranslationHandler) Option {
	return func(o *Orchestrator) {
		o.translator = t
		o.onMissing = onMissing
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the pipeline from definition to rendered output.
type Orchestrator struct {
	registry            *render.Registry
	defaultRenderer     string
	definitions         *tabledef.Store
	definitionsFS       fs.FS
	sanitizers          *sanitize.Registry
	presenters          *presenters.Registry
	presentersSpecified bool
	themeSelector       theme.ThemeSelector
	transformer         Transformer
	translator          render.Translator
	onMissing           render.MissingTranslationHandler
	logger              zerolog.Logger
	initialiseErr       error
	defaultsApplied     bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// Name selects a definition from the store.
	Name string
	// Definition bypasses the store.
	Definition *tabledef.Definition
	// Table renders a prebuilt table; definition fields are ignored.
	Table *table.Table

	// Columns and Tags narrow the definition through tabledef.Selection.
	Columns []string
	Tags    []string

	// Records hydrate the body, one row per record.
	Records []any

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant are passed to the theme selector.
	// RenderOptions.Theme, when set, takes precedence over selection.
	ThemeName    string
	ThemeVariant string

	RenderOptions render.RenderOptions
}

// Generate builds the table for req and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.ready(); err != nil {
		return nil, err
	}

	tbl := req.Table
	if tbl == nil {
		built, err := o.Build(ctx, req)
		if err != nil {
			return nil, err
		}
		tbl = built
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := o.withTranslation(req.RenderOptions)
	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	o.logger.Debug().
		Str("table", req.Name).
		Str("renderer", renderer.Name()).
		Int("rows", tbl.Body().Len()).
		Bool("themed", opts.Theme != nil).
		Msg("rendering table")

	output, err := renderer.Render(ctx, tbl, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Build resolves the definition for req, applies column selection and the
// transformer, builds the table and hydrates it with req.Records.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*table.Table, error) {
	if err := o.ready(); err != nil {
		return nil, err
	}

	def, err := o.definitionFor(req)
	if err != nil {
		return nil, err
	}
	def = def.Select(tabledef.Selection{Keys: req.Columns, Tags: req.Tags})

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &def); err != nil {
			return nil, fmt.Errorf("orchestrator: transform definition: %w", err)
		}
	}
	render.LocalizeDefinition(&def, o.withTranslation(req.RenderOptions))

	tbl, err := def.Build(
		tabledef.WithSanitizers(o.sanitizers),
		tabledef.WithPresenters(o.presenters),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build table: %w", err)
	}

	if len(req.Records) > 0 {
		if err := tbl.Hydrate(req.Records...); err != nil {
			return nil, fmt.Errorf("orchestrator: hydrate %q: %w", def.Name, err)
		}
	}

	o.logger.Trace().
		Str("table", def.Name).
		Int("columns", len(tbl.Columns())).
		Int("records", len(req.Records)).
		Msg("built table")
	return tbl, nil
}

// Definitions returns the definition store.
func (o *Orchestrator) Definitions() *tabledef.Store {
	return o.definitions
}

// Registry returns the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) withTranslation(opts render.RenderOptions) render.RenderOptions {
	if opts.Translator == nil {
		opts.Translator = o.translator
	}
	if opts.OnMissing == nil {
		opts.OnMissing = o.onMissing
	}
	return opts
}

func (o *Orchestrator) ready() error {
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	return o.initialiseErr
}

func (o *Orchestrator) definitionFor(req Request) (tabledef.Definition, error) {
	if req.Definition != nil {
		return req.Definition.Clone(), nil
	}
	if req.Name == "" {
		return tabledef.Definition{}, errs.New(errs.CodeInvalidArgument, "orchestrator: table name or definition is required")
	}
	def, err := o.definitions.Get(req.Name)
	if err != nil {
		return tabledef.Definition{}, fmt.Errorf("orchestrator: %w", err)
	}
	return def, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.registry == nil {
		o.registry = render.NewRegistry(markup.New())
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: vanilla renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.sanitizers == nil {
		o.sanitizers = sanitize.NewRegistry()
	}
	if o.presenters == nil && !o.presentersSpecified {
		o.presenters = presenters.NewRegistry()
	}
	if o.definitions == nil {
		store, err := tabledef.LoadFS(o.definitionsFS)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load definitions: %w", err)
			store = tabledef.NewStore()
		}
		o.definitions = store
	}

	o.defaultsApplied = true
}
