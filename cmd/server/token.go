package main

import (
	"fmt"
	"time"

	"orion-os/auth"
	"orion-os/internal/config"
	"orion-os/internal/domain"

	"github.com/spf13/cobra"
)

var tokenIdentity domain.Identity
var tokenTTL time.Duration

// tokenCmd issues identity tokens for local development
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development identity token",
	Long: `Issue a signed identity token for the configured JWT_SECRET.

Without JWT_SECRET a random secret is generated per process, so the token
will not verify against a running server.

Examples:
  orion token --sub dev-user --first Test --last User
  orion token --sub alice --email alice@example.com --ttl 1h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verifier := auth.NewTokenVerifier(config.AppConfig.JWTSecret, config.AppConfig.JWTIssuer)
		token, err := verifier.Issue(tokenIdentity, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenIdentity.Subject, "sub", "dev-user", "identity subject")
	tokenCmd.Flags().StringVar(&tokenIdentity.Name, "name", "", "display name claim")
	tokenCmd.Flags().StringVar(&tokenIdentity.FirstName, "first", "", "given name claim")
	tokenCmd.Flags().StringVar(&tokenIdentity.LastName, "last", "", "family name claim")
	tokenCmd.Flags().StringVar(&tokenIdentity.Email, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenIdentity.ImageURL, "picture", "", "avatar URL claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
