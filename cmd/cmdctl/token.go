package main

import (
	"fmt"
	"time"

	"github.com/cmdshop/cmdshop/internal/tokens"
	"github.com/spf13/cobra"
)

func (a *app) tokenCmd() *cobra.Command {
	var (
		sub, name string
		ttl       time.Duration
	)
	c := &cobra.Command{
		Use:   "token",
		Short: "Mint an HS256 access token for development servers",
		Long: `Mint an access token signed with JWT_SECRET, accepted by a server
running with the same secret.

Example:
  export CMDSHOP_TOKEN=$(JWT_SECRET=dev cmdctl token --sub alice --human)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := a.v.GetString("jwt_secret")
			if secret == "" {
				return &configError{msg: "JWT_SECRET is not set"}
			}
			tok, err := tokens.GenerateAccessToken(secret, sub, name, ttl)
			if err != nil {
				return fmt.Errorf("minting token: %w", err)
			}
			if a.human {
				fmt.Fprintln(cmd.OutOrStdout(), tok)
				return nil
			}
			return outputJSON(cmd.OutOrStdout(), map[string]interface{}{
				"token":      tok,
				"sub":        sub,
				"expires_at": time.Now().Add(ttl).UTC().Format(time.RFC3339),
			})
		},
	}
	c.Flags().StringVar(&sub, "sub", "", "Subject claim (required)")
	c.Flags().StringVar(&name, "name", "", "Display name claim")
	c.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = c.MarkFlagRequired("sub")
	return c
}
