package service

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
	"github.com/aussiebroadwan/apikey/internal/apikey/store/drivers/sqlite"
	"github.com/aussiebroadwan/apikey/pkg/cryptox"
)

// testGenerator keeps argon2id but cheap enough for unit tests.
func testGenerator() *cryptox.KeyGenerator {
	return cryptox.NewKeyGenerator(cryptox.WithHasher(&cryptox.Argon2idHasher{
		Params: cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 16, SaltLength: 16},
	}))
}

func newSQLiteStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestManager(t *testing.T, opts ...ManagerOption) *Manager[*domain.APIKey] {
	t.Helper()
	opts = append([]ManagerOption{WithKeyGenerator(testGenerator())}, opts...)
	return NewManager(newSQLiteStore(t).APIKeys(), domain.NewAPIKey, opts...)
}

// fixedClock returns a controllable clock.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// memRepo is an in-memory store.Repository for credential types that have
// no SQL driver of their own.
type memRepo[T domain.Credential] struct {
	mu   sync.Mutex
	recs []T
	err  error
}

var _ store.Repository[*domain.APIKey] = (*memRepo[*domain.APIKey])(nil)

func (r *memRepo[T]) Create(_ context.Context, rec T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, x := range r.recs {
		if x.GetID() == rec.GetID() || x.GetPrefix() == rec.GetPrefix() {
			return store.ErrAlreadyExists
		}
	}
	r.recs = append(r.recs, rec)
	return nil
}

func (r *memRepo[T]) GetByID(_ context.Context, id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if r.err != nil {
		return zero, r.err
	}
	for _, x := range r.recs {
		if x.GetID() == id {
			x.MarkLoaded()
			return x, nil
		}
	}
	return zero, store.ErrNotFound
}

func (r *memRepo[T]) ListUsableByPrefix(_ context.Context, prefix string) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []T
	for _, x := range r.recs {
		if x.GetPrefix() == prefix && !x.IsRevoked() {
			out = append(out, x)
		}
	}
	return out, nil
}

func (r *memRepo[T]) ListUsable(_ context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []T
	for _, x := range slices.Backward(r.recs) {
		if !x.IsRevoked() {
			out = append(out, x)
		}
	}
	return out, nil
}

func (r *memRepo[T]) List(ctx context.Context, _ store.ListFilter) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.recs)
	slices.Reverse(out)
	return out, r.err
}

func (r *memRepo[T]) Update(_ context.Context, rec T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i, x := range r.recs {
		if x.GetID() == rec.GetID() {
			r.recs[i] = rec
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *memRepo[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.recs {
		if x.GetID() == id {
			r.recs = slices.Delete(r.recs, i, i+1)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *memRepo[T]) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.recs)), r.err
}
