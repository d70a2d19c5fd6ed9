package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ridwanfathin/invoice-dashboard/internal/database"
	"github.com/ridwanfathin/invoice-dashboard/internal/repository"
	"github.com/ridwanfathin/invoice-dashboard/internal/revalidate"
	"github.com/ridwanfathin/invoice-dashboard/internal/server"
	"github.com/ridwanfathin/invoice-dashboard/internal/service"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Port = port
			}

			ctx := cmd.Context()

			logger.Info("connecting to database")
			db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			cache, err := revalidate.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to create route cache: %w", err)
			}
			defer cache.Close()

			pool := db.GetPool()
			invoiceService := service.NewInvoiceService(
				repository.NewPostgresInvoiceRepository(pool),
				repository.NewPostgresCustomerRepository(pool),
				repository.NewPostgresCategoryRepository(pool),
				cache,
			)
			authService := service.NewAuthService(service.AuthServiceConfig{
				UserRepo:   repository.NewPostgresUserRepository(pool),
				JWTSecret:  cfg.JWTSecret,
				SessionTTL: cfg.SessionTTL,
			})

			srv, err := server.NewServer(cfg, logger, server.Dependencies{
				AuthService:    authService,
				InvoiceService: invoiceService,
				PageService:    service.NewPageService(invoiceService, cache),
				HealthCheck:    db.Ping,
			})
			if err != nil {
				return err
			}

			return srv.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides PORT)")

	return cmd
}
