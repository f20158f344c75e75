package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Verifier checks a presented key against a stored hash.
type Verifier interface {
	Verify(key, storedHash string) bool
}

// MultiVerifier dispatches on the algorithm tag embedded in the stored hash.
// It understands argon2id PHC strings, bcrypt modular crypt strings and the
// pbkdf2_sha256 format used by keys imported from older deployments.
//
// All comparisons are constant time; malformed or unknown hashes never verify.
type MultiVerifier struct {
	Pepper string
}

// NewVerifier returns a MultiVerifier using pepper for argon2id and bcrypt.
func NewVerifier(pepper string) *MultiVerifier {
	return &MultiVerifier{Pepper: pepper}
}

func (v *MultiVerifier) Verify(key, storedHash string) bool {
	switch {
	case strings.HasPrefix(storedHash, "$argon2id$"):
		return verifyArgon2id(key+v.Pepper, storedHash) == nil
	case strings.HasPrefix(storedHash, "$2a$"),
		strings.HasPrefix(storedHash, "$2b$"),
		strings.HasPrefix(storedHash, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(storedHash), bcryptInput(key, v.Pepper)) == nil
	case strings.HasPrefix(storedHash, "pbkdf2_sha256$"):
		return verifyPBKDF2SHA256(key, storedHash) == nil
	default:
		return false
	}
}

var errMismatch = errors.New("cryptox: hash does not match")

// verifyArgon2id parses $argon2id$v=19$m=X,t=Y,p=Z$salt$hash and recomputes
// the digest with the embedded parameters.
func verifyArgon2id(input, encoded string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return errors.New("invalid hash format: expected 6 parts")
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return errors.New("invalid hash format: wrong version")
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("invalid hash format: failed to parse parameters: %w", err)
	}
	if iters == 0 || par == 0 {
		return errors.New("invalid hash format: zero cost parameter")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("invalid hash format: failed to decode salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return errors.New("invalid hash format: failed to decode hash")
	}

	computed := argon2.IDKey(
		[]byte(input),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - bounded by the decoded hash
	)
	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return errMismatch
	}
	return nil
}

// verifyPBKDF2SHA256 checks pbkdf2_sha256$<iterations>$<salt>$<base64 digest>.
func verifyPBKDF2SHA256(input, encoded string) error {
	parts := strings.SplitN(encoded, "$", 4)
	if len(parts) != 4 {
		return errors.New("invalid hash format: expected 4 parts")
	}

	iters, err := strconv.Atoi(parts[1])
	if err != nil || iters <= 0 {
		return errors.New("invalid hash format: bad iteration count")
	}
	expected, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(expected) == 0 {
		return errors.New("invalid hash format: failed to decode hash")
	}

	computed := pbkdf2.Key([]byte(input), []byte(parts[2]), iters, len(expected), sha256.New)
	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return errMismatch
	}
	return nil
}
