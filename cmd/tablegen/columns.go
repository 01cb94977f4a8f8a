package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tablegen/internal/logging"
	"github.com/goliatone/go-tablegen/pkg/errs"
	"github.com/goliatone/go-tablegen/pkg/openapi"
	"github.com/goliatone/go-tablegen/pkg/tabledef"
)

// columnPicker asks the user to choose among options, preselecting defaults.
type columnPicker func(message string, options, defaults []string) ([]string, error)

func surveyPicker(message string, options, defaults []string) ([]string, error) {
	var out []string
	prompt := &survey.MultiSelect{
		Message:  message,
		Options:  options,
		Default:  defaults,
		Help:     "Space toggles a column, enter confirms.",
		PageSize: 15,
	}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.MinItems(1))); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil, errs.New(errs.CodeInvalidArgument, "columns: selection cancelled")
		}
		return nil, err
	}
	return out, nil
}

type columnsOptions struct {
	openapi     string
	schema      string
	operation   string
	name        string
	interactive bool
	validate    bool
	externalRef bool
}

func newColumnsCmd(g *globalOptions, picker columnPicker) *cobra.Command {
	o := &columnsOptions{}

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Derive a table definition from an OpenAPI schema",
		Long: `columns reads an OpenAPI document and prints a YAML table definition for a
component schema or for the list items returned by an operation. Property
extensions under x-tablegen (header, hidden, order, presenter, tags,
sanitize) shape the columns.`,
		Example: `  tablegen columns --openapi api.yaml --schema User
  tablegen columns --openapi api.yaml --operation listUsers --interactive > tables/users.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(cmd, g, o, picker)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.openapi, "openapi", "", "OpenAPI document (JSON or YAML)")
	flags.StringVar(&o.schema, "schema", "", "Component schema name")
	flags.StringVar(&o.operation, "operation", "", "Operation ID returning a list")
	flags.StringVar(&o.name, "name", "", "Name of the emitted table definition")
	flags.BoolVarP(&o.interactive, "interactive", "i", false, "Pick columns interactively")
	flags.BoolVar(&o.validate, "validate", false, "Validate the OpenAPI document")
	flags.BoolVar(&o.externalRef, "external-refs", false, "Allow external $ref resolution")
	_ = cmd.MarkFlagRequired("openapi")
	cmd.MarkFlagsMutuallyExclusive("schema", "operation")

	return cmd
}

func runColumns(cmd *cobra.Command, g *globalOptions, o *columnsOptions, picker columnPicker) error {
	if _, err := g.loadConfig(cmd, nil); err != nil {
		return err
	}
	logger := logging.GetLogger("columns")
	done := logging.LogOperationStart(logger, "columns")
	defer done()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var loadOpts []openapi.Option
	if o.validate {
		loadOpts = append(loadOpts, openapi.WithValidation())
	}
	if o.externalRef {
		loadOpts = append(loadOpts, openapi.WithExternalRefs())
	}
	doc, err := openapi.LoadFile(ctx, o.openapi, loadOpts...)
	if err != nil {
		return err
	}

	var def tabledef.Definition
	switch {
	case o.schema != "":
		def, err = doc.FromSchema(o.schema)
	case o.operation != "":
		def, err = doc.FromOperation(o.operation)
	default:
		return errs.Newf(errs.CodeInvalidArgument,
			"columns: --schema or --operation is required (schemas: %s; operations: %s)",
			strings.Join(doc.SchemaNames(), ", "),
			strings.Join(doc.OperationIDs(), ", "))
	}
	if err != nil {
		return err
	}
	if o.name != "" {
		def.Name = o.name
	}

	if o.interactive {
		if picker == nil {
			return errs.New(errs.CodeInvalidArgument, "columns: interactive mode is unavailable")
		}
		def, err = pickColumns(def, picker)
		if err != nil {
			return err
		}
	}

	logger.Info().
		Str("table", def.Name).
		Int("columns", len(def.Columns)).
		Msg("Columns derived")

	out, err := marshalDefinition(def)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// pickColumns narrows def to the chosen keys. Hidden columns start
// unselected and become visible when picked.
func pickColumns(def tabledef.Definition, picker columnPicker) (tabledef.Definition, error) {
	var keys, defaults []string
	for _, col := range def.Columns {
		if col.Key == "" {
			continue
		}
		keys = append(keys, col.Key)
		if !col.Hidden {
			defaults = append(defaults, col.Key)
		}
	}
	if len(keys) == 0 {
		return def, nil
	}

	chosen, err := picker(fmt.Sprintf("Columns for %s:", def.Name), keys, defaults)
	if err != nil {
		return tabledef.Definition{}, err
	}

	out := def.Subset(chosen...)
	for i := range out.Columns {
		out.Columns[i].Hidden = false
	}
	return out, nil
}

func marshalDefinition(def tabledef.Definition) ([]byte, error) {
	doc := map[string]any{
		"tables": map[string]tabledef.Definition{def.Name: def},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("columns: encode definition: %w", err)
	}
	return out, nil
}
