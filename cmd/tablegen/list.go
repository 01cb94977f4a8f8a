package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-tablegen/pkg/errs"
	"github.com/goliatone/go-tablegen/pkg/openapi"
	"github.com/goliatone/go-tablegen/pkg/tabledef"
)

type listOptions struct {
	defs    string
	openapi string
}

func newListCmd(g *globalOptions) *cobra.Command {
	o := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List table definitions or OpenAPI sources",
		Example: `  tablegen list --defs ./tables
  tablegen list --openapi api.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, g, o)
		},
	}
	cmd.Flags().StringVar(&o.defs, "defs", "", "Directory of table definition files")
	cmd.Flags().StringVar(&o.openapi, "openapi", "", "List schemas and list operations of an OpenAPI document")
	cmd.MarkFlagsMutuallyExclusive("defs", "openapi")
	return cmd
}

func runList(cmd *cobra.Command, g *globalOptions, o *listOptions) error {
	cfg, err := g.loadConfig(cmd, map[string]any{"definitions": o.defs})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	if o.openapi != "" {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		doc, err := openapi.LoadFile(ctx, o.openapi)
		if err != nil {
			return err
		}
		for _, name := range doc.SchemaNames() {
			fmt.Fprintf(w, "schema\t%s\n", name)
		}
		for _, id := range doc.OperationIDs() {
			fmt.Fprintf(w, "operation\t%s\n", id)
		}
		return nil
	}

	if cfg.Definitions == "" {
		return errs.New(errs.CodeConfig, "list: a definitions directory is required (--defs or definitions in config)")
	}
	store, err := tabledef.LoadFS(os.DirFS(cfg.Definitions))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "NAME\tCOLUMNS\tSOURCE")
	for _, name := range store.Names() {
		def, _ := store.Definition(name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, strings.Join(visibleKeys(def), ","), def.Source)
	}
	return nil
}

func visibleKeys(def tabledef.Definition) []string {
	var out []string
	for _, col := range def.Columns {
		if col.Hidden {
			continue
		}
		key := col.Key
		if key == "" {
			key = "(" + col.Header + ")"
		}
		out = append(out, key)
	}
	return out
}
