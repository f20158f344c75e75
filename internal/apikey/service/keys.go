package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
	"github.com/aussiebroadwan/apikey/pkg/slogx"
)

// KeyService is the administrative face of the key manager for the built-in
// APIKey type. It adds logging, metrics and transactional edits.
type KeyService struct {
	Store   store.Store
	Manager *Manager[*domain.APIKey]
	Metrics *Metrics
}

// NewKeyService wires a manager over st's APIKeys repository.
func NewKeyService(st store.Store, metrics *Metrics, opts ...ManagerOption) *KeyService {
	return &KeyService{
		Store:   st,
		Manager: NewManager(st.APIKeys(), domain.NewAPIKey, opts...),
		Metrics: metrics,
	}
}

// KeyUpdate lists the fields an administrator may change. Nil fields are
// left alone.
type KeyUpdate struct {
	Name        *string
	ExpiryDate  *time.Time
	ClearExpiry bool
	Revoked     *bool
}

// CreateKey issues a key. The plaintext is returned once and never logged.
func (s *KeyService) CreateKey(ctx context.Context, attrs domain.Attributes) (*domain.APIKey, string, error) {
	l := slogx.FromContext(ctx)

	rec, key, err := s.Manager.CreateKey(ctx, attrs)
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			l.Error("failed to create api key", "error", err)
		}
		return nil, "", err
	}

	s.Metrics.created()
	l.Info("api key created", "prefix", rec.Prefix, "name", rec.Name)
	return rec, key, nil
}

// ListKeys returns keys matching f, newest first.
func (s *KeyService) ListKeys(ctx context.Context, f store.ListFilter) ([]*domain.APIKey, error) {
	return s.Store.APIKeys().List(ctx, f)
}

// UsableKeys returns every non-revoked key, expired ones included.
func (s *KeyService) UsableKeys(ctx context.Context) ([]*domain.APIKey, error) {
	return s.Manager.GetUsableKeys(ctx)
}

func (s *KeyService) GetKey(ctx context.Context, id string) (*domain.APIKey, error) {
	return s.Manager.GetByID(ctx, id)
}

// UpdateKey applies upd inside a transaction. Once a key is revoked its
// name and expiry are frozen and the revocation itself cannot be undone.
func (s *KeyService) UpdateKey(ctx context.Context, id string, upd KeyUpdate) (*domain.APIKey, error) {
	l := slogx.FromContext(ctx)

	var (
		out        *domain.APIKey
		newRevoked bool
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m := s.Manager.WithRepo(tx.APIKeys())

		rec, err := m.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if rec.Revoked && editsDetails(rec, upd) {
			return domain.ErrKeyRevoked
		}

		if upd.Name != nil {
			rec.Name = strings.TrimSpace(*upd.Name)
		}
		switch {
		case upd.ClearExpiry:
			rec.ExpiryDate = nil
		case upd.ExpiryDate != nil:
			exp := *upd.ExpiryDate
			rec.ExpiryDate = &exp
		}
		if upd.Revoked != nil {
			rec.Revoked = *upd.Revoked
		}
		newRevoked = rec.Revoked && !rec.LoadedRevoked()

		if err := m.Save(ctx, rec); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) && !errors.Is(err, ErrKeyNotFound) {
			l.Error("failed to update api key", "error", err, "id", id)
		}
		return nil, err
	}

	if newRevoked {
		s.Metrics.revoked()
		l.Info("api key revoked", "prefix", out.Prefix)
	}
	return out, nil
}

func editsDetails(rec *domain.APIKey, upd KeyUpdate) bool {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) != rec.Name {
		return true
	}
	if upd.ClearExpiry && rec.ExpiryDate != nil {
		return true
	}
	if upd.ExpiryDate != nil && (rec.ExpiryDate == nil || !upd.ExpiryDate.Equal(*rec.ExpiryDate)) {
		return true
	}
	return false
}

// RevokeKey revokes the key with id. Revoking an already revoked key
// succeeds without changes.
func (s *KeyService) RevokeKey(ctx context.Context, id string) (*domain.APIKey, error) {
	l := slogx.FromContext(ctx)

	var (
		out     *domain.APIKey
		changed bool
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m := s.Manager.WithRepo(tx.APIKeys())

		before, err := m.GetByID(ctx, id)
		if err != nil {
			return err
		}
		changed = !before.Revoked

		out, err = m.Revoke(ctx, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			l.Error("failed to revoke api key", "error", err, "id", id)
		}
		return nil, err
	}

	if changed {
		s.Metrics.revoked()
		l.Info("api key revoked", "prefix", out.Prefix)
	}
	return out, nil
}

// DeleteKey removes the key with id permanently.
func (s *KeyService) DeleteKey(ctx context.Context, id string) error {
	err := s.Store.APIKeys().Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrKeyNotFound
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to delete api key", "error", err, "id", id)
		return err
	}

	s.Metrics.deleted()
	slogx.FromContext(ctx).Info("api key deleted", "id", id)
	return nil
}

// IsValid answers the permission layer's question for a presented key. It
// agrees with Manager.IsValid and additionally records why a key failed.
func (s *KeyService) IsValid(ctx context.Context, key string) bool {
	start := time.Now()

	rec, err := s.Manager.GetFromKey(ctx, key)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		s.Metrics.validation(ResultInvalid, time.Since(start))
		return false
	case err != nil:
		slogx.FromContext(ctx).Error("api key lookup failed", "error", err)
		s.Metrics.validation(ResultError, time.Since(start))
		return false
	case rec.HasExpired(s.Manager.now()):
		s.Metrics.validation(ResultExpired, time.Since(start))
		return false
	}

	s.Metrics.validation(ResultValid, time.Since(start))
	return true
}
