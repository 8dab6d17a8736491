// Package cli defines the docx-enhancer command tree: serve runs the HTTP
// service; extract and patch run the paragraph pipeline against local files
// without the external generator.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nuritravel/go-docx-enhancer/internal/config"
	"github.com/nuritravel/go-docx-enhancer/internal/logger"
)

var (
	cfgFile   string
	debugMode bool
)

// NewRootCommand builds the root command with all subcommands attached.
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docx-enhancer",
		Short: "Paragraph-addressed docx enhancement service",
		Long: `docx-enhancer parses .docx documents into an index-addressed paragraph
list, ships the list to an external rewriting webhook, and patches the
returned texts back into the original file without touching its formatting.

Subcommands:
  serve    run the HTTP service
  extract  print a document's paragraph list as JSON
  patch    apply a replacements JSON file to a document`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newExtractCommand())
	rootCmd.AddCommand(newPatchCommand())

	return rootCmd
}

// setup loads config and builds the logger shared by all subcommands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(debugMode || cfg.Debug)
	return cfg, log, nil
}
