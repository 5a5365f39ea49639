package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/pquerna/otp/totp"
	"github.com/spf13/cobra"

	"xchain-backend/internal/config"
	"xchain-backend/internal/handlers"
	"xchain-backend/internal/middleware"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := cmd.Flags().GetString("account")
			if err != nil {
				return err
			}
			if account == "" {
				return errors.New("--account is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return errors.Wrap(err, "load config")
			}

			token, expiresAt, err := handlers.NewTokenIssuer(cfg.Auth).Generate(account)
			if err != nil {
				return err
			}
			fmt.Println("Token:")
			fmt.Println(token)
			fmt.Println()
			fmt.Printf("  Account: %s\n", account)
			fmt.Printf("  Expires: %s\n", expiresAt)
			fmt.Println()
			fmt.Printf("curl -H 'Authorization: Bearer %s' http://%s/api/v1/admin/state\n", token, cfg.Server.Addr())
			return nil
		},
	}
	cmd.Flags().StringP("account", "a", "", "account the token authenticates")
	return cmd
}

// totpCmd prints the current admin second factor code
func totpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totp",
		Short: "Print the current admin TOTP code",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return errors.Wrap(err, "load config")
			}
			secret := cfg.Admin.TOTPSecret
			if secret == "" {
				return errors.New("admin.totpSecret is not configured")
			}

			code, err := totp.GenerateCode(secret, time.Now())
			if err != nil {
				return errors.Wrap(err, "generate TOTP code")
			}
			fmt.Printf("Current TOTP Code: %s\n", code)
			fmt.Printf("Header: %s\n", middleware.TOTPHeader)
			fmt.Printf("Valid for: ~30 seconds\n")
			return nil
		},
	}
}
