package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
)

// Output formats for --output.
const (
	outputTable = "table"
	outputYAML  = "yaml"
	outputJSON  = "json"
)

// keyView is the printable form of a key. The hash is never shown.
type keyView struct {
	ID         string     `json:"id" yaml:"id"`
	Prefix     string     `json:"prefix" yaml:"prefix"`
	Name       string     `json:"name" yaml:"name"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty" yaml:"expiry_date,omitempty"`
	HasExpired bool       `json:"has_expired" yaml:"has_expired"`
	Revoked    bool       `json:"revoked" yaml:"revoked"`
}

type createdView struct {
	Key     string  `json:"key" yaml:"key"`
	Warning string  `json:"warning" yaml:"warning"`
	APIKey  keyView `json:"api_key" yaml:"api_key"`
}

func toView(k *domain.APIKey, now time.Time) keyView {
	return keyView{
		ID:         k.ID,
		Prefix:     k.Prefix,
		Name:       k.Name,
		CreatedAt:  k.CreatedAt,
		ExpiryDate: k.ExpiryDate,
		HasExpired: k.HasExpired(now),
		Revoked:    k.Revoked,
	}
}

func (c *cli) printKeys(keys []*domain.APIKey) error {
	now := time.Now()
	views := make([]keyView, len(keys))
	for i, k := range keys {
		views[i] = toView(k, now)
	}

	switch c.output {
	case outputYAML:
		return c.encodeYAML(views)
	case outputJSON:
		return c.encodeJSON(views)
	case outputTable, "":
		tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PREFIX\tNAME\tCREATED\tEXPIRES\tEXPIRED\tREVOKED\tID")
		for _, v := range views {
			expires := "-"
			if v.ExpiryDate != nil {
				expires = v.ExpiryDate.Format(time.RFC3339)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%t\t%s\n",
				v.Prefix, v.Name, v.CreatedAt.Format(time.RFC3339), expires, v.HasExpired, v.Revoked, v.ID)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", c.output)
	}
}

func (c *cli) printCreated(rec *domain.APIKey, key string) error {
	v := createdView{Key: key, Warning: oneTimeWarning, APIKey: toView(rec, time.Now())}

	switch c.output {
	case outputYAML:
		return c.encodeYAML(v)
	case outputJSON:
		return c.encodeJSON(v)
	case outputTable, "":
		fmt.Fprintf(c.out, "API key for %s:\n\n    %s\n\n%s\n", rec, key, oneTimeWarning)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", c.output)
	}
}

func (c *cli) encodeYAML(v any) error {
	enc := yaml.NewEncoder(c.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (c *cli) encodeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
