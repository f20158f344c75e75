package gormdb

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/aussiebroadwan/apikey/internal/apikey/store"
)

// Store implements store.Store on top of a *gorm.DB. The same type serves
// inside transaction-scoped stores.
type Store struct {
	db   *gorm.DB
	isTx bool
}

// NewStore connects using cfg.
func NewStore(cfg Config) (*Store, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// New wraps an existing connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) APIKeys() store.APIKeys { return &apiKeysRepo{db: s.db} }

// ApplyMigrations creates or updates the api_keys table.
func (s *Store) ApplyMigrations() error {
	if s.isTx {
		return nil
	}
	return s.db.AutoMigrate(&apiKeyRow{})
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	if s.isTx {
		return nil, sql.ErrTxDone
	}
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &txStore{Store: Store{db: tx, isTx: true}}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	if s.isTx {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	if s.isTx {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type txStore struct {
	Store

	done bool
}

func (t *txStore) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	return t.db.Commit().Error
}

func (t *txStore) Rollback() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	return t.db.Rollback().Error
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrAlreadyExists
	}

	// The sqlite dialect only translates cgo driver errors.
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return err
}
