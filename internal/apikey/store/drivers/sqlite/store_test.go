package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newKey(prefix, name string) *domain.APIKey {
	hash := "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$" + prefix
	return &domain.APIKey{
		ID:        prefix + "." + hash,
		Prefix:    prefix,
		HashedKey: hash,
		Name:      name,
	}
}

func TestAPIKeys_CreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestStore(t).APIKeys()

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	k := newKey("AAAAaaaa", "billing")
	k.ExpiryDate = &expiry
	require.NoError(t, repo.Create(ctx, k))
	require.False(t, k.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, k.ID)
	require.NoError(t, err)
	require.Equal(t, k.Prefix, got.Prefix)
	require.Equal(t, k.HashedKey, got.HashedKey)
	require.Equal(t, "billing", got.Name)
	require.False(t, got.Revoked)
	require.NotNil(t, got.ExpiryDate)
	require.True(t, expiry.Equal(*got.ExpiryDate))
	require.WithinDuration(t, k.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAPIKeys_Conflicts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestStore(t).APIKeys()

	require.NoError(t, repo.Create(ctx, newKey("BBBBbbbb", "one")))

	t.Run("same id", func(t *testing.T) {
		err := repo.Create(ctx, newKey("BBBBbbbb", "two"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("same prefix, different hash", func(t *testing.T) {
		dup := newKey("BBBBbbbb", "three")
		dup.HashedKey += "x"
		dup.ID = dup.Prefix + "." + dup.HashedKey
		err := repo.Create(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestAPIKeys_ListingNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestStore(t).APIKeys()

	base := time.Now().UTC()
	for i, p := range []string{"k0000000", "k1111111", "k2222222"} {
		k := newKey(p, "svc-"+p)
		k.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, k))
	}

	all, err := repo.List(ctx, store.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "k2222222", all[0].Prefix)
	require.Equal(t, "k0000000", all[2].Prefix)

	page, err := repo.List(ctx, store.ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "k1111111", page[0].Prefix)

	found, err := repo.List(ctx, store.ListFilter{Search: "1111"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestAPIKeys_UsableFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestStore(t).APIKeys()

	active := newKey("CCCCcccc", "active")
	revoked := newKey("DDDDdddd", "revoked")
	revoked.Revoked = true
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, revoked))

	usable, err := repo.ListUsable(ctx)
	require.NoError(t, err)
	require.Len(t, usable, 1)
	require.Equal(t, active.ID, usable[0].ID)

	byPrefix, err := repo.ListUsableByPrefix(ctx, "DDDDdddd")
	require.NoError(t, err)
	require.Empty(t, byPrefix)

	byPrefix, err = repo.ListUsableByPrefix(ctx, "CCCCcccc")
	require.NoError(t, err)
	require.Len(t, byPrefix, 1)

	yes := true
	onlyRevoked, err := repo.List(ctx, store.ListFilter{Revoked: &yes})
	require.NoError(t, err)
	require.Len(t, onlyRevoked, 1)
	require.Equal(t, revoked.ID, onlyRevoked[0].ID)
}

func TestAPIKeys_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestStore(t).APIKeys()

	k := newKey("EEEEeeee", "before")
	require.NoError(t, repo.Create(ctx, k))

	k.Name = "after"
	k.Revoked = true
	require.NoError(t, repo.Update(ctx, k))

	got, err := repo.GetByID(ctx, k.ID)
	require.NoError(t, err)
	require.Equal(t, "after", got.Name)
	require.True(t, got.Revoked)
	require.True(t, got.LoadedRevoked())

	require.ErrorIs(t, repo.Update(ctx, newKey("ZZZZzzzz", "ghost")), store.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, k.ID))
	require.ErrorIs(t, repo.Delete(ctx, k.ID), store.ErrNotFound)
}

func TestAPIKeys_RevocationTrigger(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)
	repo := st.APIKeys()

	k := newKey("FFFFffff", "svc")
	k.Revoked = true
	require.NoError(t, repo.Create(ctx, k))

	// Bypass the lifecycle guard entirely.
	k.Revoked = false
	require.ErrorIs(t, repo.Update(ctx, k), domain.ErrKeyRevoked)

	_, err := st.db.ExecContext(ctx, `UPDATE api_keys SET revoked = 0 WHERE id = ?`, k.ID)
	require.Error(t, err)

	got, err := repo.GetByID(ctx, k.ID)
	require.NoError(t, err)
	require.True(t, got.Revoked)
}

func TestStore_WithTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	k := newKey("GGGGgggg", "tx")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.APIKeys().Create(ctx, k))
		return sql.ErrConnDone
	})
	require.ErrorIs(t, err, sql.ErrConnDone)

	_, err = st.APIKeys().GetByID(ctx, k.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		return tx.APIKeys().Create(ctx, k)
	}))
	_, err = st.APIKeys().GetByID(ctx, k.ID)
	require.NoError(t, err)

	require.NoError(t, st.Ping(ctx))
}

func TestAPIKeys_SearchIsLiteral(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestStore(t).APIKeys()

	for _, k := range []*domain.APIKey{
		newKey("Lik1aaaa", "svc_one"),
		newKey("Lik2aaaa", "svc-two"),
		newKey("Lik3aaaa", "100% ready"),
		newKey("Lik4aaaa", "wow!"),
	} {
		require.NoError(t, repo.Create(ctx, k))
	}

	for search, want := range map[string]string{
		"_":    "svc_one",
		"c_o":  "svc_one",
		"%":    "100% ready",
		"0% r": "100% ready",
		"!":    "wow!",
	} {
		found, err := repo.List(ctx, store.ListFilter{Search: search})
		require.NoError(t, err, search)
		require.Len(t, found, 1, search)
		require.Equal(t, want, found[0].Name, search)
	}

	found, err := repo.List(ctx, store.ListFilter{Search: "svc"})
	require.NoError(t, err)
	require.Len(t, found, 2)
}
