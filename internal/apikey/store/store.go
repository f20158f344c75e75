package store

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, gormdb)
// implement it and expose repositories as methods so a Tx-scoped Store can
// hand out the same repositories bound to the transaction.
type Store interface {
	APIKeys() APIKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. An error from fn rolls the
	// transaction back; nil commits it.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// ListFilter narrows List. Zero value lists everything.
type ListFilter struct {
	// Search matches a substring of the name or the prefix.
	Search string

	// Revoked, when set, keeps only keys with that revoked value.
	Revoked *bool

	Limit  int
	Offset int
}

// LikeEscape is the escape character drivers declare in LIKE clauses.
const LikeEscape = "!"

var likeEscaper = strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, "%", LikeEscape+"%", "_", LikeEscape+"_")

// EscapeLike quotes the LIKE wildcards in s so it matches literally when
// the clause carries ESCAPE '!'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Repository persists one credential type. All listings are ordered by
// creation time, newest first.
type Repository[T domain.Credential] interface {
	// Create inserts rec. A duplicate id or prefix returns ErrAlreadyExists.
	Create(ctx context.Context, rec T) error

	GetByID(ctx context.Context, id string) (T, error)

	// ListUsableByPrefix returns the non-revoked records with the given prefix.
	ListUsableByPrefix(ctx context.Context, prefix string) ([]T, error)

	// ListUsable returns every non-revoked record. Expiry is not considered.
	ListUsable(ctx context.Context) ([]T, error)

	List(ctx context.Context, f ListFilter) ([]T, error)

	// Update writes the mutable fields (name, revoked, expiry date). A write
	// that would clear revoked returns domain.ErrKeyRevoked.
	Update(ctx context.Context, rec T) error

	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int64, error)
}

// APIKeys is the repository for the built-in key type.
type APIKeys = Repository[*domain.APIKey]
