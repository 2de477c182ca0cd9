package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/spboyer/tagx/internal/projectconfig"
)

var version = "dev"

// rootOptions carries the global flags and the loaded project configuration
// to every subcommand.
type rootOptions struct {
	configPath string
	cfg        *projectconfig.ProjectConfig
}

func (o *rootOptions) loadConfig() error {
	var (
		cfg *projectconfig.ProjectConfig
		err error
	)
	if o.configPath != "" {
		cfg, err = projectconfig.LoadFile(o.configPath)
	} else {
		var wd string
		if wd, err = os.Getwd(); err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		cfg, err = projectconfig.Load(wd)
	}
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		slog.Debug("loaded project config", "path", cfg.Source)
	}
	o.cfg = cfg
	return nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{cfg: projectconfig.New()}

	cmd := &cobra.Command{
		Use:   "tagx",
		Short: "tagx - extract tag frequencies from text",
		Long: `tagx counts the words of a text file after removing stop words.

Words are split on whitespace, reduced to their ASCII letters, lowercased and
checked against a stop word list (one word per line). The result is a list of
tags with their frequencies, saved as "<word> : <count>" lines.

Defaults are read from a .tagx.yaml file found in the working directory or
one of its parents.`,
		Version:      version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a config file (default: nearest "+projectconfig.FileName+")")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		return opts.loadConfig()
	}

	// Add subcommands
	cmd.AddCommand(newExtractCommand(opts))
	cmd.AddCommand(newBatchCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newInteractiveCommand(opts))
	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
