package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neuronlabs/tvb"
	"github.com/neuronlabs/tvb/config"
	"github.com/neuronlabs/tvb/log"
)

// app is the state shared by the commands of a single execution.
type app struct {
	lib *tvb.Library
}

// NewRootCmd creates the base command with all the sub commands.
func NewRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "tvb",
		Short: "Brain network modelling datatypes and analyzers.",
		Long: `Imports the brain data files (connectivity, surfaces, sensors and time series) into the datatype store,
runs the signal analyzers and graph measures on the stored datatypes and shows their summaries.

The store is configured with the config file or with the TVB_ prefixed environment variables,
i.e. TVB_STORAGE_DRIVER=file TVB_STORAGE_PATH=./data`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.lib == nil {
				return nil
			}
			return a.lib.Close(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the config file")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "logging level. Possible values: debug3, debug2, debug, info, warning, error")
	rootCmd.PersistentFlags().String("store", "", "directory of the file store, overrides the configured storage")

	rootCmd.AddCommand(
		a.typesCmd(),
		a.importCmd(),
		a.listCmd(),
		a.infoCmd(),
		a.analyzeCmd(),
		a.graphCmd(),
	)
	return rootCmd
}

// Execute executes the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	var cfg *config.Config
	if cfgPath != "" {
		if cfg, err = config.ReadConfigFile(cfgPath); err != nil {
			return err
		}
	} else {
		cfg = config.ReadDefaultConfig()
	}

	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}
	if level != "" {
		cfg.LogLevel = level
	}
	storePath, err := cmd.Flags().GetString("store")
	if err != nil {
		return err
	}
	if storePath != "" {
		cfg.Storage.Driver = "file"
		cfg.Storage.Path = storePath
	}

	log.New(cmd.ErrOrStderr(), "", 0)
	a.lib, err = tvb.NewContext(cmd.Context(), cfg)
	return err
}
