package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
)

// oneTimeWarning is printed alongside every new key.
const oneTimeWarning = "Please store it somewhere safe: you will not be able to see it again."

// errInvalidKey makes "check" exit non-zero.
var errInvalidKey = errors.New("api key is invalid, revoked or expired")

func newCreateCmd(c *cli) *cobra.Command {
	var (
		name      string
		expiresIn time.Duration
		expiresAt string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a new API key and print it once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			attrs := domain.Attributes{Name: name}
			switch {
			case expiresAt != "":
				t, err := time.Parse(time.RFC3339, expiresAt)
				if err != nil {
					return fmt.Errorf("invalid --expires-at: %w", err)
				}
				attrs.ExpiryDate = &t
			case expiresIn > 0:
				t := time.Now().Add(expiresIn)
				attrs.ExpiryDate = &t
			}

			svc, err := c.openService()
			if err != nil {
				return err
			}
			rec, key, err := svc.CreateKey(cmd.Context(), attrs)
			if err != nil {
				return err
			}
			return c.printCreated(rec, key)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the principal the key belongs to")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "expire the key after this duration, e.g. 720h")
	cmd.Flags().StringVar(&expiresAt, "expires-at", "", "expire the key at this RFC 3339 time")
	_ = cmd.MarkFlagRequired("name")
	cmd.MarkFlagsMutuallyExclusive("expires-in", "expires-at")
	return cmd
}

func newListCmd(c *cli) *cobra.Command {
	var (
		usable  bool
		search  string
		revoked string
		limit   int
		offset  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List API keys, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.openService()
			if err != nil {
				return err
			}

			var keys []*domain.APIKey
			if usable {
				keys, err = svc.UsableKeys(cmd.Context())
			} else {
				f := store.ListFilter{Search: search, Limit: limit, Offset: offset}
				if revoked != "" {
					b, perr := strconv.ParseBool(revoked)
					if perr != nil {
						return fmt.Errorf("invalid --revoked: %w", perr)
					}
					f.Revoked = &b
				}
				keys, err = svc.ListKeys(cmd.Context(), f)
			}
			if err != nil {
				return err
			}
			return c.printKeys(keys)
		},
	}

	cmd.Flags().BoolVar(&usable, "usable", false, "only keys that are not revoked")
	cmd.Flags().StringVar(&search, "search", "", "match name or prefix")
	cmd.Flags().StringVar(&revoked, "revoked", "", "filter by revoked flag (true or false)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of keys")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of keys to skip")
	return cmd
}

func newGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withKey(cmd.Context(), args[0], func(ctx context.Context, id string) (*domain.APIKey, error) {
				return c.svc.GetKey(ctx, id)
			})
		},
	}
}

func newRevokeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke ID",
		Short: "Permanently revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withKey(cmd.Context(), args[0], func(ctx context.Context, id string) (*domain.APIKey, error) {
				return c.svc.RevokeKey(ctx, id)
			})
		},
	}
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.openService()
			if err != nil {
				return err
			}
			if err := svc.DeleteKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "deleted %s\n", args[0])
			return nil
		},
	}
}

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check KEY",
		Short: "Check whether a presented API key is currently valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.openService()
			if err != nil {
				return err
			}
			if !svc.IsValid(cmd.Context(), args[0]) {
				return errInvalidKey
			}
			fmt.Fprintln(c.out, "valid")
			return nil
		},
	}
}

func (c *cli) withKey(
	ctx context.Context,
	id string,
	fn func(ctx context.Context, id string) (*domain.APIKey, error),
) error {
	if _, err := c.openService(); err != nil {
		return err
	}
	rec, err := fn(ctx, id)
	if err != nil {
		return err
	}
	return c.printKeys([]*domain.APIKey{rec})
}
