package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
	"github.com/aussiebroadwan/apikey/pkg/cryptox"
)

// ErrKeyNotFound covers every failed lookup: unknown prefix, ambiguous
// prefix, wrong secret and unknown id all look the same to the caller.
var ErrKeyNotFound = errors.New("service: api key not found")

// Manager issues and checks keys for one credential type. T is usually
// *domain.APIKey, but any type implementing domain.Credential works,
// typically a struct that embeds domain.APIKey.
type Manager[T domain.Credential] struct {
	repo      store.Repository[T]
	newRecord func(domain.Attributes) T

	generator *cryptox.KeyGenerator
	verifier  cryptox.Verifier
	now       func() time.Time
}

type managerConfig struct {
	generator *cryptox.KeyGenerator
	verifier  cryptox.Verifier
	now       func() time.Time
}

type ManagerOption func(*managerConfig)

func WithKeyGenerator(g *cryptox.KeyGenerator) ManagerOption {
	return func(c *managerConfig) { c.generator = g }
}

func WithVerifier(v cryptox.Verifier) ManagerOption {
	return func(c *managerConfig) { c.verifier = v }
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) ManagerOption {
	return func(c *managerConfig) { c.now = now }
}

// NewManager returns a manager persisting through repo. newRecord builds an
// unsaved record from caller attributes.
func NewManager[T domain.Credential](
	repo store.Repository[T],
	newRecord func(domain.Attributes) T,
	opts ...ManagerOption,
) *Manager[T] {
	cfg := managerConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.generator == nil {
		cfg.generator = cryptox.NewKeyGenerator()
	}
	if cfg.verifier == nil {
		cfg.verifier = cryptox.NewVerifier("")
	}

	return &Manager[T]{
		repo:      repo,
		newRecord: newRecord,
		generator: cfg.generator,
		verifier:  cfg.verifier,
		now:       cfg.now,
	}
}

// WithRepo returns a copy of m bound to repo, e.g. a transaction's repository.
func (m *Manager[T]) WithRepo(repo store.Repository[T]) *Manager[T] {
	cp := *m
	cp.repo = repo
	return &cp
}

// AssignKey gives rec fresh key material and returns the plaintext key.
// Nothing is persisted.
func (m *Manager[T]) AssignKey(rec T) (string, error) {
	key, prefix, hashed, err := m.generator.Generate()
	if err != nil {
		return "", err
	}
	rec.AssignKey(cryptox.Join(prefix, hashed), prefix, hashed)
	return key, nil
}

// CreateKey builds, keys and stores a new record. attrs.ID is ignored.
// The returned plaintext key cannot be recovered later.
func (m *Manager[T]) CreateKey(ctx context.Context, attrs domain.Attributes) (T, string, error) {
	var zero T

	attrs.ID = ""
	rec := m.newRecord(attrs)

	key, err := m.AssignKey(rec)
	if err != nil {
		return zero, "", err
	}
	if err := rec.Validate(); err != nil {
		return zero, "", err
	}
	if err := m.repo.Create(ctx, rec); err != nil {
		return zero, "", fmt.Errorf("create api key: %w", err)
	}
	rec.MarkLoaded()
	return rec, key, nil
}

// Save validates rec and writes its mutable fields. After a successful write
// the saved revoked value becomes the start of the next edit session.
func (m *Manager[T]) Save(ctx context.Context, rec T) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := m.repo.Update(ctx, rec); err != nil {
		return err
	}
	rec.MarkLoaded()
	return nil
}

// GetUsableKeys returns every non-revoked record, expired ones included.
func (m *Manager[T]) GetUsableKeys(ctx context.Context) ([]T, error) {
	return m.repo.ListUsable(ctx)
}

// GetByID loads a record by its stored identifier.
func (m *Manager[T]) GetByID(ctx context.Context, id string) (T, error) {
	rec, err := m.repo.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		var zero T
		return zero, ErrKeyNotFound
	}
	return rec, err
}

// GetFromKey resolves a presented key to its record. Exactly one usable
// record must carry the key's prefix and its hash must match the key.
// Expiry is not checked here.
func (m *Manager[T]) GetFromKey(ctx context.Context, key string) (T, error) {
	var zero T

	prefix, _ := cryptox.Split(key)
	if prefix == "" {
		return zero, ErrKeyNotFound
	}

	recs, err := m.repo.ListUsableByPrefix(ctx, prefix)
	if err != nil {
		return zero, err
	}
	if len(recs) != 1 {
		return zero, ErrKeyNotFound
	}

	rec := recs[0]
	if !m.verifier.Verify(key, rec.GetHashedKey()) {
		return zero, ErrKeyNotFound
	}
	return rec, nil
}

// IsValid reports whether key belongs to a non-revoked, unexpired record.
// Every failure, including storage errors, reads as false.
func (m *Manager[T]) IsValid(ctx context.Context, key string) bool {
	rec, err := m.GetFromKey(ctx, key)
	if err != nil {
		return false
	}
	return !rec.HasExpired(m.now())
}

// Revoke marks the record revoked. Revoking twice is not an error.
func (m *Manager[T]) Revoke(ctx context.Context, id string) (T, error) {
	rec, err := m.GetByID(ctx, id)
	if err != nil {
		return rec, err
	}
	if rec.IsRevoked() {
		return rec, nil
	}
	rec.SetRevoked(true)
	if err := m.Save(ctx, rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}
