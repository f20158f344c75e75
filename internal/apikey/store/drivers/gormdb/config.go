// Package gormdb stores API keys through GORM, so the service can run on
// PostgreSQL or MySQL as well as SQLite.
package gormdb

import (
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// DriverType selects the SQL dialect.
type DriverType string

const (
	DriverSQLite   DriverType = "sqlite"
	DriverMySQL    DriverType = "mysql"
	DriverPostgres DriverType = "postgres"
)

var SupportedDrivers = []DriverType{
	DriverSQLite,
	DriverMySQL,
	DriverPostgres,
}

// Config represents the database configuration.
type Config struct {
	Driver DriverType

	// DSN is the file path for SQLite, or a connection string:
	//   MySQL:    user:pass@tcp(127.0.0.1:3306)/apikeys?charset=utf8mb4&parseTime=True
	//   Postgres: host=localhost user=apikey password=apikey dbname=apikeys port=5432 sslmode=disable
	DSN string

	// Debug logs every SQL statement.
	Debug bool
}

// Connect opens a GORM connection for cfg.
func Connect(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case DriverSQLite:
		// Hand GORM a pure-Go modernc connection so no cgo is required.
		conn, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, err
		}
		conn.SetMaxOpenConns(1)
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: cfg.DSN, Conn: conn})
	case DriverMySQL:
		dialector = mysql.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	logMode := logger.Silent
	if cfg.Debug {
		logMode = logger.Info
	}

	return gorm.Open(
		dialector, &gorm.Config{
			Logger:         logger.Default.LogMode(logMode),
			TranslateError: true,
		},
	)
}

// ParseDriver maps a configuration string onto a DriverType.
func ParseDriver(s string) (DriverType, error) {
	d := DriverType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SupportedDrivers {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unsupported database driver: %q", s)
}
