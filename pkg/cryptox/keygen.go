package cryptox

import "fmt"

// Default key layout: an 8 character lookup prefix and a 32 character secret.
const (
	DefaultPrefixLength = 8
	DefaultSecretLength = 32
)

// KeyGenerator produces new API keys and their stored hashes.
type KeyGenerator struct {
	PrefixLength int
	SecretLength int
	Hasher       Hasher
}

type KeyGeneratorOption func(*KeyGenerator)

// WithPrefixLength overrides DefaultPrefixLength. Non-positive values are ignored.
func WithPrefixLength(n int) KeyGeneratorOption {
	return func(g *KeyGenerator) {
		if n > 0 {
			g.PrefixLength = n
		}
	}
}

// WithSecretLength overrides DefaultSecretLength. Non-positive values are ignored.
func WithSecretLength(n int) KeyGeneratorOption {
	return func(g *KeyGenerator) {
		if n > 0 {
			g.SecretLength = n
		}
	}
}

func WithHasher(h Hasher) KeyGeneratorOption {
	return func(g *KeyGenerator) {
		if h != nil {
			g.Hasher = h
		}
	}
}

// NewKeyGenerator returns a generator using the default lengths and an
// unpeppered argon2id hasher unless overridden.
func NewKeyGenerator(opts ...KeyGeneratorOption) *KeyGenerator {
	g := &KeyGenerator{
		PrefixLength: DefaultPrefixLength,
		SecretLength: DefaultSecretLength,
		Hasher:       NewArgon2idHasher(""),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *KeyGenerator) GeneratePrefix() string { return RandomString(g.PrefixLength) }

func (g *KeyGenerator) GenerateSecret() string { return RandomString(g.SecretLength) }

// Hash returns the salted one-way hash of plaintext.
func (g *KeyGenerator) Hash(plaintext string) (string, error) {
	return g.Hasher.Hash(plaintext)
}

// Generate returns a fresh key ("prefix.secret"), its prefix, and the hash of
// the full key. The key itself must be handed to the caller once and never
// stored.
func (g *KeyGenerator) Generate() (key, prefix, hashedKey string, err error) {
	prefix = g.GeneratePrefix()
	key = Join(prefix, g.GenerateSecret())

	hashedKey, err = g.Hash(key)
	if err != nil {
		return "", "", "", fmt.Errorf("cryptox: hash key: %w", err)
	}
	return key, prefix, hashedKey, nil
}
