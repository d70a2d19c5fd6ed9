// Package cli wires the invoice dashboard commands.
package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ridwanfathin/invoice-dashboard/internal/config"
	"github.com/ridwanfathin/invoice-dashboard/internal/middleware"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "invoice-dashboard",
		Short:         "Acme invoice dashboard",
		Long:          "Server-rendered dashboard for creating, editing and deleting customer invoices.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newCreateUserCmd())
	return cmd
}

// Execute runs the root command
func Execute() error {
	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		logrus.WithError(err).Error("command failed")
	}
	return err
}

// loadEnvironment reads the configuration and sets up the standard logger from it
func loadEnvironment() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logrus.StandardLogger()
	if err := middleware.ConfigureLogger(logger, middleware.LoggerConfig{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
	}); err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}
