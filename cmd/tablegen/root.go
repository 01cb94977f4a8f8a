package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-tablegen/internal/config"
	"github.com/goliatone/go-tablegen/internal/logging"
)

type globalOptions struct {
	configPath string
	verbosity  int
}

func newRootCmd(picker columnPicker) *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "tablegen",
		Short: "Render HTML tables from declarative definitions",
		Long: `tablegen builds HTML tables from YAML or JSON table definitions and
JSON records, and derives column definitions from OpenAPI schemas.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (TOML or YAML)")
	root.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	root.AddCommand(newRenderCmd(g))
	root.AddCommand(newColumnsCmd(g, picker))
	root.AddCommand(newListCmd(g))
	return root
}

// loadConfig resolves the config file under flag overrides and reconfigures
// logging from the result.
func (g *globalOptions) loadConfig(cmd *cobra.Command, overrides map[string]any) (config.Config, error) {
	cfg, err := config.Load(g.configPath, overrides)
	if err != nil {
		return config.Config{}, err
	}
	if err := logging.Configure(cmd.ErrOrStderr(), cfg.Log.Format, cfg.Log.Level, g.verbosity); err != nil {
		return config.Config{}, err
	}
	log.Debug().
		Str("config", g.configPath).
		Str("renderer", cfg.Renderer).
		Str("definitions", cfg.Definitions).
		Msg("Config loaded")
	return cfg, nil
}
