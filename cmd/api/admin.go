package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"project-tracker/domain/dto"
	"project-tracker/pkg/di"
	"project-tracker/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		container := di.NewContainer()
		defer container.Cleanup()

		if err := container.InitializeDatabase(); err != nil {
			return err
		}
		logger.Info("Migrations applied")
		return nil
	},
}

var adminFlags dto.CreateUserRequest

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long:  "Creates an active administrator. When --password is empty a random password is generated and printed once.",
	RunE: func(cmd *cobra.Command, args []string) error {
		container := di.NewContainer()
		defer container.Cleanup()

		if err := container.InitializeCore(); err != nil {
			return err
		}

		req := adminFlags
		req.IsAdmin = true

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		user, password, err := container.UserService.CreateAdmin(ctx, &req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "admin created: %s (%s)\n", user.Username, user.ID)
		if adminFlags.Password == "" {
			fmt.Fprintf(out, "generated password: %s\n", password)
		}
		return nil
	},
}

func init() {
	flags := createAdminCmd.Flags()
	flags.StringVar(&adminFlags.Username, "username", "", "admin username")
	flags.StringVar(&adminFlags.Email, "email", "", "admin email")
	flags.StringVar(&adminFlags.Password, "password", "", "admin password (generated when empty)")
	flags.StringVar(&adminFlags.FirstName, "first-name", "", "first name")
	flags.StringVar(&adminFlags.LastName, "last-name", "", "last name")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
}
