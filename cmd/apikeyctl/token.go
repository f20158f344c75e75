package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/apikey/internal/apikey/app"
	"github.com/aussiebroadwan/apikey/pkg/jwtx"
)

func newTokenCmd(c *cli) *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token for the HTTP API",
		Long: "Mint an admin bearer token signed with the secret in APIKEY_ADMIN_SECRET_FILE.\n" +
			"The secret is generated on first use, exactly as apikeyd does.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			signer, err := app.AdminSigner(c.cfg)
			if err != nil {
				return err
			}
			tok, err := signer.Sign(jwtx.NewAdminClaims(subject, c.cfg.Issuer, scopes, ttl, time.Now()))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "apikeyctl", "sub claim of the token")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{jwtx.ScopeKeysRead, jwtx.ScopeKeysWrite}, "granted scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", jwtx.DefaultAdminTokenTTL, "token lifetime")
	return cmd
}
