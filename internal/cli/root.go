// Package cli contains the finance command line
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcos-lima-dev/finance-app/internal/app"
	"github.com/marcos-lima-dev/finance-app/internal/config"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
)

type rootFlags struct {
	configFile string
	logLevel   string
}

// NewRootCommand builds the finance command tree
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Personal finance tracker with spending alerts.",
		Long: `finance records credits and debits, derives balances and period
aggregates, and raises alerts when monthly spending approaches a category limit.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "Config file (default searches ./config.yaml and $HOME/.finance)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the configured log level")

	cmd.AddCommand(
		newServeCommand(flags),
		newSummaryCommand(flags),
		newAlertsCommand(flags),
		newLimitCommand(flags),
		newAddCommand(flags),
		newExportCommand(flags),
	)
	return cmd
}

// Execute runs the command line and returns the process exit code
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}

// load resolves configuration and a logger for a command
func (f *rootFlags) load() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	logger.SetDefaultLogger(log)
	return cfg, log, nil
}

// open builds the application for a one-shot command
func (f *rootFlags) open(ctx context.Context) (*app.App, error) {
	cfg, log, err := f.load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, log)
}
