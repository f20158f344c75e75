package cryptox

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a plaintext key into a salted, self-describing one-way hash.
// Hashing the same input twice yields different outputs.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// Argon2Params configures Argon2id hashing.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultArgon2Params follows the OWASP minimum for Argon2id (19 MiB, t=2, p=1).
var DefaultArgon2Params = Argon2Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

// Argon2idHasher emits PHC strings: $argon2id$v=19$m=X,t=Y,p=Z$salt$hash.
type Argon2idHasher struct {
	Params Argon2Params
	Pepper string
}

// NewArgon2idHasher returns a hasher with the default parameters.
func NewArgon2idHasher(pepper string) *Argon2idHasher {
	return &Argon2idHasher{Params: DefaultArgon2Params, Pepper: pepper}
}

func (h *Argon2idHasher) Hash(plaintext string) (string, error) {
	p := h.Params
	if p.Iterations == 0 {
		p = DefaultArgon2Params
	}

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey([]byte(plaintext+h.Pepper), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// BcryptHasher emits modular crypt strings ($2a$cost$...).
//
// bcrypt only reads the first 72 bytes of its input, so the key is first
// reduced to an HMAC-SHA256 keyed with the pepper.
type BcryptHasher struct {
	Cost   int
	Pepper string
}

// NewBcryptHasher returns a hasher using bcrypt.DefaultCost.
func NewBcryptHasher(pepper string) *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost, Pepper: pepper}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword(bcryptInput(plaintext, h.Pepper), cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: bcrypt: %w", err)
	}
	return string(out), nil
}

func bcryptInput(plaintext, pepper string) []byte {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(plaintext))
	return []byte(base64.RawStdEncoding.EncodeToString(mac.Sum(nil)))
}

// Hash algorithm names accepted by NewHasher.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

var ErrUnknownAlgorithm = errors.New("cryptox: unknown hash algorithm")

// NewHasher returns the Hasher registered under name.
func NewHasher(name, pepper string) (Hasher, error) {
	switch name {
	case "", AlgorithmArgon2id:
		return NewArgon2idHasher(pepper), nil
	case AlgorithmBcrypt:
		return NewBcryptHasher(pepper), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}
