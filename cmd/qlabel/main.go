package main

import (
	"fmt"
	"os"

	"github.com/chrisconley/qlabel/cmd/qlabel/commands"
	"github.com/chrisconley/qlabel/internal/config"
	"github.com/chrisconley/qlabel/internal/logger"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var env = &commands.Env{}

var rootCmd = &cobra.Command{
	Use:   "qlabel",
	Short: "qlabel - quantity labels for extracted scientific data",
	Long: `qlabel - parse, validate and render quantity labels.

A label names a quantity together with its qualifiers:
  primary[:descriptor][:order][:coord][:state][:level]

Available commands:
  parse    - Validate labels and print their canonical form
  render   - Build a label from named fields
  unit     - Parse a unit string
  registry - List known quantities
  request  - Check a request file

Examples:
  qlabel parse DipStr:H 101:len:0:X:0->1
  qlabel render --quantity 1 --order 2 --coord Q
  qlabel unit "10^-44 statC2.cm2"
  qlabel registry FCDat`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		if err := logger.Initialize(cfg.Log.Level, cfg.Log.JSON); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		env.Config = cfg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (TOML, YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(commands.NewParseCmd(env))
	rootCmd.AddCommand(commands.NewRenderCmd(env))
	rootCmd.AddCommand(commands.NewUnitCmd(env))
	rootCmd.AddCommand(commands.NewRegistryCmd(env))
	rootCmd.AddCommand(commands.NewRequestCmd(env))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, commands.FormatError(err))
		os.Exit(1)
	}
}
