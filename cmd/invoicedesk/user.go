package main

import (
	"context"
	"fmt"

	authdomain "github.com/smallbiznis/invoicedesk/internal/auth/domain"
	authservice "github.com/smallbiznis/invoicedesk/internal/auth/service"
	"github.com/smallbiznis/invoicedesk/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard accounts",
}

var userCreateFlags struct {
	name     string
	email    string
	password string
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision an account with an Argon2id password hash",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithStore(cmd.Context(), func(ctx context.Context, store storage.Store, log *zap.Logger) error {
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			provisioner := authservice.NewProvisioner(authservice.Params{Log: log, Repo: store.Users()})
			user, err := provisioner.Provision(ctx, authdomain.NewUser{
				Name:     userCreateFlags.name,
				Email:    userCreateFlags.email,
				Password: userCreateFlags.password,
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), user.ID)
			return nil
		})
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userCreateFlags.name, "name", "", "display name")
	f.StringVar(&userCreateFlags.email, "email", "", "sign-in email")
	f.StringVar(&userCreateFlags.password, "password", "", "password, at least 6 characters")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)
}
