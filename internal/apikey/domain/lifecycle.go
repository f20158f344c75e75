package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrValidation = errors.New("domain: validation failed")

	ErrNameRequired = fmt.Errorf("%w: name is required", ErrValidation)
	ErrNameTooLong  = fmt.Errorf("%w: name must be at most %d characters", ErrValidation, MaxNameLength)
	ErrKeyRevoked   = fmt.Errorf("%w: the API key has been revoked, which cannot be undone", ErrValidation)
)

// HasExpired reports whether the key's expiry date lies before now. It is
// evaluated on every call and never stored.
func (k *APIKey) HasExpired(now time.Time) bool {
	return k.ExpiryDate != nil && k.ExpiryDate.Before(now)
}

// IsUsable reports whether the key may be looked up for verification.
// Expiry is checked separately.
func (k *APIKey) IsUsable() bool {
	return !k.Revoked
}

// Validate enforces the field rules and that revocation is never undone
// within an edit session.
func (k *APIKey) Validate() error {
	name := strings.TrimSpace(k.Name)
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if k.loadedRevoked && !k.Revoked {
		return ErrKeyRevoked
	}
	return nil
}

func (k *APIKey) MarkLoaded() {
	k.loadedRevoked = k.Revoked
}

// LoadedRevoked is the revoked value the current edit session started with.
func (k *APIKey) LoadedRevoked() bool {
	return k.loadedRevoked
}
