package main

import (
	"fmt"
	"time"

	"clearview/internal/auth"
	"clearview/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

func (a *app) tokenCmd() *cobra.Command {
	var role, subject, email string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an HS256 admin token signed with JWT_SECRET",
		Long: `Mint an HS256 admin token for local development.

The server accepts it only when JWKS_URL is unset and JWT_SECRET matches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Environment == "prod" {
				return fmt.Errorf("dev tokens are disabled in production")
			}
			verifier, err := auth.NewSecretVerifier(a.cfg.JWTSecret, a.logger)
			if err != nil {
				return err
			}
			now := time.Now()
			token, err := verifier.SignDevToken(&models.AdminClaims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   subject,
					IssuedAt:  jwt.NewNumericDate(now),
					ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
				},
				Email:       email,
				Role:        "authenticated",
				AppMetadata: map[string]any{"admin_role": role},
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "owner", "admin role (owner, editor, front-desk, viewer)")
	cmd.Flags().StringVar(&subject, "subject", "cmsctl", "token subject")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
