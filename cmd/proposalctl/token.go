package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/proposalflow-backend/internal/auth"
	"github.com/heartmarshall/proposalflow-backend/internal/config"
	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue access tokens",
	}
	cmd.AddCommand(tokenIssueCmd())
	return cmd
}

func tokenIssueCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Print a signed access token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			if ttl <= 0 {
				ttl = cfg.Auth.AccessTokenTTL
			}

			token, err := issueToken(cfg.Auth, ttl, domain.Actor{ID: id, Role: domain.UserRole(strings.ToUpper(role))})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&role, "role", string(domain.UserRoleUser), "ADMIN, REGISTRAR, APPROVER or USER")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default auth.access_token_ttl)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func issueToken(cfg config.AuthConfig, ttl time.Duration, actor domain.Actor) (string, error) {
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, ttl).GenerateAccessToken(actor)
}
