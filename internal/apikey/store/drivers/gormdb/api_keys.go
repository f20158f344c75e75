package gormdb

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
)

const newestFirst = "created_at DESC, id DESC"

type apiKeysRepo struct {
	db *gorm.DB
}

func (r *apiKeysRepo) Create(ctx context.Context, k *domain.APIKey) error {
	if k.CreatedAt.IsZero() {
		k.CreatedAt = time.Now().UTC()
	}
	row := toRow(k)
	return mapWriteError(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *apiKeysRepo) GetByID(ctx context.Context, id string) (*domain.APIKey, error) {
	var row apiKeyRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *apiKeysRepo) ListUsableByPrefix(ctx context.Context, prefix string) ([]*domain.APIKey, error) {
	var rows []apiKeyRow
	err := r.db.WithContext(ctx).
		Where("prefix = ? AND revoked = ?", prefix, false).
		Order(newestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows), nil
}

func (r *apiKeysRepo) ListUsable(ctx context.Context) ([]*domain.APIKey, error) {
	var rows []apiKeyRow
	err := r.db.WithContext(ctx).
		Where("revoked = ?", false).
		Order(newestFirst).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows), nil
}

func (r *apiKeysRepo) List(ctx context.Context, f store.ListFilter) ([]*domain.APIKey, error) {
	q := r.db.WithContext(ctx).Model(&apiKeyRow{})
	if f.Search != "" {
		like := "%" + store.EscapeLike(f.Search) + "%"
		q = q.Where("name LIKE ? ESCAPE '!' OR prefix LIKE ? ESCAPE '!'", like, like)
	}
	if f.Revoked != nil {
		q = q.Where("revoked = ?", *f.Revoked)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var rows []apiKeyRow
	if err := q.Order(newestFirst).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows), nil
}

// Update only touches rows whose stored revoked flag allows the new value,
// so a revoked row can never be flipped back.
func (r *apiKeysRepo) Update(ctx context.Context, k *domain.APIKey) error {
	res := r.db.WithContext(ctx).
		Model(&apiKeyRow{}).
		Where("id = ? AND (revoked = ? OR revoked = ?)", k.ID, false, k.Revoked).
		Updates(map[string]any{
			"name":        k.Name,
			"revoked":     k.Revoked,
			"expiry_date": k.ExpiryDate,
		})
	if res.Error != nil {
		return mapWriteError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Either the row is gone, the guard blocked it, or (MySQL) nothing changed.
	var row apiKeyRow
	if err := r.db.WithContext(ctx).Where("id = ?", k.ID).First(&row).Error; err != nil {
		return mapNotFound(err)
	}
	if row.Revoked && !k.Revoked {
		return domain.ErrKeyRevoked
	}
	return nil
}

func (r *apiKeysRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&apiKeyRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *apiKeysRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&apiKeyRow{}).Count(&n).Error
	return n, err
}
