package cli

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/ridwanfathin/invoice-dashboard/internal/database"
)

func newMigrateCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				migrations, err := database.Migrations()
				if err != nil {
					return err
				}
				for _, m := range migrations {
					fmt.Fprintln(cmd.OutOrStdout(), m.Name)
				}
				return nil
			}

			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("POSTGRES_DB_URL is not set")
			}

			db, err := sql.Open("pgx", cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if err := database.Apply(cmd.Context(), db); err != nil {
				return err
			}

			logger.Info("migrations applied")
			fmt.Fprintln(cmd.OutOrStdout(), "Migration successfully executed!")
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "Print the embedded migrations without applying them")

	return cmd
}
