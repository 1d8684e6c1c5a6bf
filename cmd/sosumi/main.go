// Package main implements the sosumi CLI: search, lookup, and browse a
// local encrypted WWDC transcript corpus.
//
// This file is the entry point and command registration hub; individual
// subcommands live in their own cmd_*.go files.
//
//   - main.go           - entry point, rootCmd, global flags, init()
//   - cmd_search.go     - wwdc subcommand
//   - cmd_session.go    - session subcommand
//   - cmd_year.go       - year subcommand
//   - cmd_stats.go      - stats subcommand
//   - cmd_docs.go       - doc subcommand (live documentation composition point)
//   - output.go         - shared stdout rendering helpers
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smith-tools/sosumi/internal/config"
	"github.com/smith-tools/sosumi/internal/facade"
	"github.com/smith-tools/sosumi/internal/logging"
)

var (
	verbose    bool
	bundlePath string

	logger  *zap.Logger
	app     *facade.Facade
	cfgFile *config.Config
	watcher *config.Watcher
)

var rootCmd = &cobra.Command{
	Use:   "sosumi",
	Short: "Search the WWDC transcript archive from the command line",
	Long: `sosumi searches a local, encrypted WWDC session transcript corpus
using full-text search, and renders sessions in several information
densities for both humans and downstream AI agents.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		home, _ := os.UserHomeDir()
		if err := logging.Initialize(home); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}

		configPath := config.DefaultConfigPath()
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
			cfg = config.DefaultConfig()
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfgFile = cfg

		effectiveBundle := bundlePath
		if effectiveBundle == "" {
			effectiveBundle = cfg.BundlePath
		}

		logger.Debug("configuration loaded",
			zap.String("config_path", configPath),
			zap.String("bundle_path", effectiveBundle),
			zap.Int("default_limit", cfg.DefaultLimit),
		)

		app = facade.New(facade.Options{
			BundlePath:         effectiveBundle,
			KeyOverride:        cfg.EncryptionKey,
			DefaultLimit:       cfg.DefaultLimit,
			RecencyWindowYears: cfg.RecencyWindowYears,
		})

		if w, err := config.NewWatcher(configPath, func(reloaded *config.Config) {
			cfgFile = reloaded
		}); err == nil {
			watcher = w
			_ = watcher.Start()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if watcher != nil {
			watcher.Stop()
		}
		if app != nil {
			_ = app.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&bundlePath, "bundle", "", "path to the wwdc bundle or plain database (overrides search path)")

	rootCmd.AddCommand(searchCmd, sessionCmd, yearCmd, statsCmd)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(facade.ExitCode(err))
	}
}
