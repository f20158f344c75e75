package domain

import (
	"strings"
	"time"
)

// MaxNameLength bounds APIKey.Name.
const MaxNameLength = 50

// MaxPrefixLength is the widest prefix the prefix column holds.
const MaxPrefixLength = 8

// Credential is what the key manager needs from a record type. *APIKey
// implements it, and so does any struct that embeds APIKey, which lets an
// application attach its own columns to a key.
type Credential interface {
	GetID() string
	GetPrefix() string
	GetHashedKey() string
	GetName() string

	// AssignKey installs freshly generated key material.
	AssignKey(id, prefix, hashedKey string)

	IsRevoked() bool
	SetRevoked(bool)
	HasExpired(now time.Time) bool

	// Validate runs the lifecycle checks before a write.
	Validate() error

	// MarkLoaded records the current revoked value as the start of an edit
	// session. Stores call it after reading a row; the manager calls it after
	// a successful save.
	MarkLoaded()
}

// Attributes are the caller-supplied fields of a new key. ID is accepted so
// request bodies can be decoded straight into it, but is always discarded:
// identifiers come from the generated key material only.
type Attributes struct {
	ID         string
	Name       string
	ExpiryDate *time.Time
}

// APIKey is one issued credential. The plaintext key is never stored; ID is
// Prefix + "." + HashedKey.
type APIKey struct {
	ID         string
	Prefix     string
	HashedKey  string
	Name       string
	CreatedAt  time.Time
	Revoked    bool
	ExpiryDate *time.Time // nil never expires

	loadedRevoked bool
}

// NewAPIKey builds an unsaved key from attrs. It has no key material until
// AssignKey is called.
func NewAPIKey(attrs Attributes) *APIKey {
	return &APIKey{
		Name:       strings.TrimSpace(attrs.Name),
		ExpiryDate: attrs.ExpiryDate,
	}
}

func (k *APIKey) GetID() string        { return k.ID }
func (k *APIKey) GetPrefix() string    { return k.Prefix }
func (k *APIKey) GetHashedKey() string { return k.HashedKey }
func (k *APIKey) GetName() string      { return k.Name }
func (k *APIKey) IsRevoked() bool      { return k.Revoked }
func (k *APIKey) SetRevoked(v bool)    { k.Revoked = v }

func (k *APIKey) AssignKey(id, prefix, hashedKey string) {
	k.ID = id
	k.Prefix = prefix
	k.HashedKey = hashedKey
}

func (k *APIKey) String() string {
	return k.Name + " (" + k.Prefix + ")"
}
