package sqlite

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/apikey/internal/apikey/store/drivers/sqlite/gen"
)

const repoRoot = "../../../../.."

type sqlcConfig struct {
	Version string `yaml:"version"`
	SQL     []struct {
		Engine  string `yaml:"engine"`
		Queries string `yaml:"queries"`
		Schema  string `yaml:"schema"`
		Gen     struct {
			Go struct {
				Package string `yaml:"package"`
				Out     string `yaml:"out"`
			} `yaml:"go"`
		} `yaml:"gen"`
	} `yaml:"sql"`
}

// The gen package is regenerated with `sqlc generate` from the repo root.
func TestSQLCConfig_MatchesLayout(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join(repoRoot, "sqlc.yaml"))
	require.NoError(t, err)

	var cfg sqlcConfig
	require.NoError(t, yaml.Unmarshal(raw, &cfg))
	require.Equal(t, "2", cfg.Version)
	require.Len(t, cfg.SQL, 1)

	c := cfg.SQL[0]
	require.Equal(t, "sqlite", c.Engine)
	require.Equal(t, "gen", c.Gen.Go.Package)

	wd, err := os.Getwd()
	require.NoError(t, err)
	root, err := filepath.Abs(repoRoot)
	require.NoError(t, err)

	for dir, want := range map[string]string{
		c.Queries:    "queries",
		c.Schema:     "migrations",
		c.Gen.Go.Out: "gen",
	} {
		require.Equal(t, filepath.Join(wd, want), filepath.Join(root, dir))
	}
}

func TestSQLCQueries_HaveGeneratedMethods(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("queries", "api_keys.sql"))
	require.NoError(t, err)

	names := regexp.MustCompile(`(?m)^-- name: (\w+) :`).FindAllStringSubmatch(string(raw), -1)
	require.NotEmpty(t, names)

	q := reflect.TypeOf(gen.New(nil))
	for _, m := range names {
		_, ok := q.MethodByName(m[1])
		require.True(t, ok, "gen.Queries is missing %s", m[1])
	}
	require.Equal(t, len(names), q.NumMethod()-1, "WithTx aside, every method comes from a query")
}
