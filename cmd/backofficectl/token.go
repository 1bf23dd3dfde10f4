package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/techvibe/backoffice/internal/interfaces/http"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Issue a bearer token for the admin API",
		Example: `  backofficectl token alice@techvibe.example --role editor --ttl 8h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				ttl = a.cfg.Auth.TokenTTL
			}
			token, err := httpapi.IssueToken(a.cfg.Auth.JWTSecret, args[0], role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", httpapi.RoleAdmin, "admin or editor")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default auth.token_ttl)")
	return cmd
}
