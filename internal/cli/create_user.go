package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/ridwanfathin/invoice-dashboard/internal/database"
	"github.com/ridwanfathin/invoice-dashboard/internal/repository"
	"github.com/ridwanfathin/invoice-dashboard/internal/service"
)

// newUser holds the create-user flags
type newUser struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func (u newUser) validate() error {
	err := validator.New().Struct(u)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	problems := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		problems = append(problems, fmt.Sprintf("--%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid user: %s", strings.Join(problems, ", "))
}

func newCreateUserCmd() *cobra.Command {
	var user newUser

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a dashboard user that can sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := user.validate(); err != nil {
				return err
			}

			cfg, logger, err := loadEnvironment()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			authService := service.NewAuthService(service.AuthServiceConfig{
				UserRepo:   repository.NewPostgresUserRepository(db.GetPool()),
				JWTSecret:  cfg.JWTSecret,
				SessionTTL: cfg.SessionTTL,
			})

			created, err := authService.Register(ctx, user.Name, user.Email, user.Password)
			if err != nil {
				return err
			}

			logger.WithField("user_id", created.ID).Info("user created")
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", created.Email, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&user.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&user.Email, "email", "", "Sign-in email")
	cmd.Flags().StringVar(&user.Password, "password", "", "Sign-in password (at least 6 characters)")

	return cmd
}
