package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-tablegen/internal/config"
	"github.com/goliatone/go-tablegen/internal/logging"
	"github.com/goliatone/go-tablegen/pkg/errs"
	"github.com/goliatone/go-tablegen/pkg/orchestrator"
	"github.com/goliatone/go-tablegen/pkg/render"
	"github.com/goliatone/go-tablegen/pkg/renderers/markup"
	"github.com/goliatone/go-tablegen/pkg/renderers/vanilla"
)

type renderOptions struct {
	defs       string
	table      string
	data       string
	renderer   string
	theme      string
	variant    string
	output     string
	columns    []string
	tags       []string
	stylesheet bool
	presets    string
	templates  string
	caption    string
}

func newRenderCmd(g *globalOptions) *cobra.Command {
	o := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a table definition to HTML",
		Example: `  tablegen render --defs ./tables --table users --data users.json
  tablegen render --config tablegen.toml --table users --data - --renderer vanilla`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, g, o)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.defs, "defs", "", "Directory of table definition files")
	flags.StringVar(&o.table, "table", "", "Table definition name")
	flags.StringVar(&o.data, "data", "", "JSON records file (- reads stdin)")
	flags.StringVar(&o.renderer, "renderer", "", "Renderer name (markup, vanilla)")
	flags.StringVar(&o.theme, "theme", "", "Theme name")
	flags.StringVar(&o.variant, "variant", "", "Theme variant")
	flags.StringVarP(&o.output, "output", "o", "", "Write HTML to file instead of stdout")
	flags.StringSliceVar(&o.columns, "columns", nil, "Only render these column keys")
	flags.StringSliceVar(&o.tags, "tags", nil, "Only render columns carrying these tags")
	flags.BoolVar(&o.stylesheet, "stylesheet", false, "Emit the renderer stylesheet before the table")
	flags.StringVar(&o.presets, "presets", "", "JSON preset file applied to definitions")
	flags.StringVar(&o.templates, "templates", "", "Directory overriding the vanilla templates (templates/table.tmpl)")
	flags.StringVar(&o.caption, "caption", "", "Override the table caption")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runRender(cmd *cobra.Command, g *globalOptions, o *renderOptions) error {
	logger := logging.GetLogger("render")
	done := logging.LogOperationStart(logger, "render")
	defer done()

	overrides := map[string]any{
		"definitions":   o.defs,
		"renderer":      o.renderer,
		"theme.name":    o.theme,
		"theme.variant": o.variant,
		"presets":       o.presets,
		"templates":     o.templates,
	}
	if cmd.Flags().Changed("stylesheet") {
		overrides["stylesheet"] = o.stylesheet
	}
	cfg, err := g.loadConfig(cmd, overrides)
	if err != nil {
		return err
	}

	gen, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}

	records, err := readRecords(cmd.InOrStdin(), o.data)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	output, err := gen.Generate(ctx, orchestrator.Request{
		Name:     o.table,
		Columns:  o.columns,
		Tags:     o.tags,
		Records:  records,
		Renderer: cfg.Renderer,
		RenderOptions: render.RenderOptions{
			Caption:    o.caption,
			Stylesheet: cfg.Stylesheet,
		},
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("table", o.table).
		Int("records", len(records)).
		Int("bytes", len(output)).
		Msg("Table rendered")

	if o.output == "" {
		_, err := cmd.OutOrStdout().Write(append(output, '\n'))
		return err
	}
	if err := os.WriteFile(o.output, output, 0o644); err != nil {
		return errs.Wrapf(err, errs.CodeRender, "render: write %s", o.output).WithDetail("path", o.output)
	}
	return nil
}

func newOrchestrator(cfg config.Config) (*orchestrator.Orchestrator, error) {
	if cfg.Definitions == "" {
		return nil, errs.New(errs.CodeConfig, "render: a definitions directory is required (--defs or definitions in config)")
	}

	options := []orchestrator.Option{
		orchestrator.WithDefinitionsFS(os.DirFS(cfg.Definitions)),
		orchestrator.WithDefaultRenderer(cfg.Renderer),
		orchestrator.WithThemes(cfg.Theme.Name, cfg.Theme.Variant, cfg.Manifests()...),
		orchestrator.WithLogger(logging.GetLogger("orchestrator")),
	}

	if cfg.Templates != "" {
		custom, err := vanilla.New(vanilla.WithTemplatesDir(cfg.Templates))
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithRegistry(render.NewRegistry(markup.New(), custom)))
	}

	if cfg.Presets != "" {
		raw, err := os.ReadFile(cfg.Presets)
		if err != nil {
			return nil, errs.Wrapf(err, errs.CodeConfig, "render: read presets %s", cfg.Presets).WithDetail("path", cfg.Presets)
		}
		presets, err := orchestrator.NewJSONPresetTransformer(raw)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformer(presets))
	}

	return orchestrator.New(options...), nil
}

// readRecords decodes a JSON array of records, or a single object as one
// record. An empty path renders the table without body rows.
func readRecords(stdin io.Reader, path string) ([]any, error) {
	if path == "" {
		return nil, nil
	}

	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errs.Wrapf(err, errs.CodeInvalidArgument, "render: read records %s", path).WithDetail("path", path)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '{' {
		var record map[string]any
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, errs.Wrapf(err, errs.CodeInvalidArgument, "render: decode records %s", path).WithDetail("path", path)
		}
		return []any{record}, nil
	}

	var records []any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errs.Wrapf(err, errs.CodeInvalidArgument, "render: decode records %s", path).WithDetail("path", path)
	}
	return records, nil
}
