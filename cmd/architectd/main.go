// Package main implements the architectd CLI: the build-guide pipeline
// daemon plus project management commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/architectd/internal/config"
	"github.com/fyrsmithlabs/architectd/internal/logging"
	"github.com/fyrsmithlabs/architectd/internal/store"
	"go.uber.org/zap"
)

var (
	configPath string

	// version information (set via ldflags during build)
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "architectd",
	Short: "Phase-gated build guide pipeline",
	Long: `architectd turns a raw product idea into an approved build guide through
a fixed sequence of phases: idea intake, feature discovery, outline
generation and approval, chapter writing, quality gates, and final
assembly.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to YAML config file (optional)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(validateCmd)
}

// bootstrap loads config, builds the logger, and opens the store.
func bootstrap() (*config.Config, *zap.Logger, *store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, nil, err
	}

	st, err := store.New(cfg.Storage.Dir, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, log, st, nil
}
