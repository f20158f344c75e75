package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	for in, want := range map[string]string{
		"":          "",
		"billing":   "billing",
		"svc_one":   "svc!_one",
		"100%":      "100!%",
		"wow!":      "wow!!",
		"!_%":       "!!!_!%",
		`back\lash`: `back\lash`,
	} {
		require.Equal(t, want, EscapeLike(in), in)
	}
}
