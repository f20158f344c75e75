package gormdb

import (
	"time"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
)

type apiKeyRow struct {
	ID         string    `gorm:"primaryKey;size:255"`
	Prefix     string    `gorm:"size:8;not null;uniqueIndex"`
	HashedKey  string    `gorm:"size:255;not null"`
	Name       string    `gorm:"size:50;not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
	Revoked    bool      `gorm:"not null;default:false"`
	ExpiryDate *time.Time
}

func (apiKeyRow) TableName() string { return "api_keys" }

func toRow(k *domain.APIKey) apiKeyRow {
	return apiKeyRow{
		ID:         k.ID,
		Prefix:     k.Prefix,
		HashedKey:  k.HashedKey,
		Name:       k.Name,
		CreatedAt:  k.CreatedAt,
		Revoked:    k.Revoked,
		ExpiryDate: k.ExpiryDate,
	}
}

func (r apiKeyRow) toDomain() *domain.APIKey {
	k := &domain.APIKey{
		ID:         r.ID,
		Prefix:     r.Prefix,
		HashedKey:  r.HashedKey,
		Name:       r.Name,
		CreatedAt:  r.CreatedAt,
		Revoked:    r.Revoked,
		ExpiryDate: r.ExpiryDate,
	}
	k.MarkLoaded()
	return k
}

func toDomainSlice(rows []apiKeyRow) []*domain.APIKey {
	out := make([]*domain.APIKey, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out
}
