package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
	"github.com/aussiebroadwan/apikey/internal/apikey/store/drivers/sqlite/gen"
)

type apiKeysRepo struct {
	q *gen.Queries
}

func (r *apiKeysRepo) Create(ctx context.Context, k *domain.APIKey) error {
	if k.CreatedAt.IsZero() {
		k.CreatedAt = time.Now().UTC()
	}
	err := r.q.CreateAPIKey(ctx, gen.CreateAPIKeyParams{
		ID:         k.ID,
		Prefix:     k.Prefix,
		HashedKey:  k.HashedKey,
		Name:       k.Name,
		CreatedAt:  k.CreatedAt,
		Revoked:    k.Revoked,
		ExpiryDate: mapOptionalTime(k.ExpiryDate),
	})
	return mapWriteError(err)
}

func (r *apiKeysRepo) GetByID(ctx context.Context, id string) (*domain.APIKey, error) {
	row, err := r.q.GetAPIKeyByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return mapAPIKey(row), nil
}

func (r *apiKeysRepo) ListUsableByPrefix(ctx context.Context, prefix string) ([]*domain.APIKey, error) {
	rows, err := r.q.ListUsableAPIKeysByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	return mapAPIKeys(rows), nil
}

func (r *apiKeysRepo) ListUsable(ctx context.Context) ([]*domain.APIKey, error) {
	rows, err := r.q.ListUsableAPIKeys(ctx)
	if err != nil {
		return nil, err
	}
	return mapAPIKeys(rows), nil
}

func (r *apiKeysRepo) List(ctx context.Context, f store.ListFilter) ([]*domain.APIKey, error) {
	limit := int64(f.Limit)
	if limit <= 0 {
		limit = -1 // no limit
	}
	rows, err := r.q.ListAPIKeys(ctx, gen.ListAPIKeysParams{
		Search:  store.EscapeLike(f.Search),
		Revoked: mapOptionalBool(f.Revoked),
		Limit:   limit,
		Offset:  int64(max(f.Offset, 0)),
	})
	if err != nil {
		return nil, err
	}
	return mapAPIKeys(rows), nil
}

func (r *apiKeysRepo) Update(ctx context.Context, k *domain.APIKey) error {
	n, err := r.q.UpdateAPIKey(ctx, gen.UpdateAPIKeyParams{
		Name:       k.Name,
		Revoked:    k.Revoked,
		ExpiryDate: mapOptionalTime(k.ExpiryDate),
		ID:         k.ID,
	})
	if err != nil {
		return mapWriteError(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *apiKeysRepo) Delete(ctx context.Context, id string) error {
	n, err := r.q.DeleteAPIKey(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *apiKeysRepo) Count(ctx context.Context) (int64, error) {
	return r.q.CountAPIKeys(ctx)
}
