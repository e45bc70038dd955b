// Package cli wires the apidash commands together.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"apidash/internal/config"
	"apidash/internal/logging"

	"github.com/sirupsen/logrus"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "apidash",
		Short:        "API testing dashboard with a built-in mock backend",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(&cfgFile),
		newRunCmd(&cfgFile),
		newTUICmd(&cfgFile),
		newVersionCmd(),
	)

	return cmd
}

// loadConfig resolves the effective config for a command, applying its
// flag overrides on top of the shared config file.
func loadConfig(cfgFile *string, cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(*cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	logging.SetLevel(cfg.LogLevel)
	return cfg, logging.Logger(), nil
}
