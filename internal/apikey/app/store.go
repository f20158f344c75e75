package app

import (
	"fmt"
	"strings"

	"github.com/aussiebroadwan/apikey/internal/apikey/service"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
	"github.com/aussiebroadwan/apikey/internal/apikey/store/drivers/gormdb"
	"github.com/aussiebroadwan/apikey/internal/apikey/store/drivers/sqlite"
	"github.com/aussiebroadwan/apikey/pkg/cryptox"
)

// Database drivers accepted in APIKEY_DATABASE_DRIVER.
const (
	DriverSQLite     = "sqlite"
	DriverGormSQLite = "gorm-sqlite"
	DriverPostgres   = "postgres"
	DriverMySQL      = "mysql"
)

// OpenStore connects to the configured database and applies migrations.
func OpenStore(cfg Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)

	switch strings.ToLower(cfg.DatabaseDriver) {
	case "", DriverSQLite:
		st, err = sqlite.NewStore(sqliteDSN(cfg.DatabaseDSN))
	case DriverGormSQLite:
		st, err = gormdb.NewStore(gormdb.Config{Driver: gormdb.DriverSQLite, DSN: sqliteDSN(cfg.DatabaseDSN), Debug: cfg.LogLevel == "debug"})
	case DriverPostgres, DriverMySQL:
		var driver gormdb.DriverType
		if driver, err = gormdb.ParseDriver(cfg.DatabaseDriver); err != nil {
			return nil, err
		}
		st, err = gormdb.NewStore(gormdb.Config{Driver: driver, DSN: cfg.DatabaseDSN, Debug: cfg.LogLevel == "debug"})
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.DatabaseDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return st, nil
}

// sqliteDSN turns a bare file path into a WAL-mode DSN. Anything that
// already looks like a DSN is passed through.
func sqliteDSN(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", path)
}

// KeyManagerOptions builds the generator and verifier for cfg. The pepper
// file is created on first use.
func KeyManagerOptions(cfg Config) ([]service.ManagerOption, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pepper, err := cryptox.LoadOrGeneratePepper(cfg.PepperPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	hasher, err := cryptox.NewHasher(cfg.HashAlgorithm, pepper)
	if err != nil {
		return nil, err
	}

	gen := cryptox.NewKeyGenerator(
		cryptox.WithHasher(hasher),
		cryptox.WithPrefixLength(cfg.PrefixLength),
		cryptox.WithSecretLength(cfg.SecretLength),
	)

	return []service.ManagerOption{
		service.WithKeyGenerator(gen),
		service.WithVerifier(cryptox.NewVerifier(pepper)),
	}, nil
}
