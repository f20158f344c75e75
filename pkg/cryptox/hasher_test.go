package cryptox

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

func TestArgon2idHasher_Format(t *testing.T) {
	hash, err := NewArgon2idHasher("").Hash("AbCdEfGh.secret")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6, "PHC hash should have 6 parts")
	require.Equal(t, "", parts[0])
	require.Equal(t, "argon2id", parts[1])
	require.Equal(t, "v=19", parts[2])
	require.Equal(t, "m=19456,t=2,p=1", parts[3])
	require.NotEmpty(t, parts[4], "salt should not be empty")
	require.NotEmpty(t, parts[5], "hash should not be empty")
}

func TestHashers_NonDeterministicButVerifiable(t *testing.T) {
	hashers := map[string]Hasher{
		"argon2id":          NewArgon2idHasher(""),
		"argon2id peppered": NewArgon2idHasher("pepper"),
		"bcrypt":            &BcryptHasher{Cost: bcrypt.MinCost},
		"bcrypt peppered":   &BcryptHasher{Cost: bcrypt.MinCost, Pepper: "pepper"},
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			pepper := ""
			switch hh := h.(type) {
			case *Argon2idHasher:
				pepper = hh.Pepper
			case *BcryptHasher:
				pepper = hh.Pepper
			}
			v := NewVerifier(pepper)
			key := "AbCdEfGh." + strings.Repeat("x", 32)

			first, err := h.Hash(key)
			require.NoError(t, err)
			second, err := h.Hash(key)
			require.NoError(t, err)

			require.NotEqual(t, first, second, "hashes should differ due to unique salts")
			require.True(t, v.Verify(key, first))
			require.True(t, v.Verify(key, second))

			require.False(t, v.Verify(key+"a", first), "near miss must not verify")
			require.False(t, v.Verify(key[:len(key)-1], first))
			require.False(t, v.Verify("", first))
		})
	}
}

func TestVerifier_PepperMismatch(t *testing.T) {
	hash, err := NewArgon2idHasher("right").Hash("key")
	require.NoError(t, err)

	require.True(t, NewVerifier("right").Verify("key", hash))
	require.False(t, NewVerifier("wrong").Verify("key", hash))
	require.False(t, NewVerifier("").Verify("key", hash))
}

func TestVerifier_LongKeysWithBcrypt(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}
	long := strings.Repeat("k", 100)

	hash, err := h.Hash(long)
	require.NoError(t, err)
	require.True(t, NewVerifier("").Verify(long, hash))
	require.False(t, NewVerifier("").Verify(long[:99]+"j", hash))
}

func TestVerifier_LegacyPBKDF2(t *testing.T) {
	key := "Hero1234.legacysecretlegacysecretlegacysec"
	salt := "s0m3salt"
	digest := pbkdf2.Key([]byte(key), []byte(salt), 1000, sha256.Size, sha256.New)
	stored := fmt.Sprintf("pbkdf2_sha256$%d$%s$%s", 1000, salt, base64.StdEncoding.EncodeToString(digest))

	v := NewVerifier("ignored-for-legacy")
	require.True(t, v.Verify(key, stored))
	require.False(t, v.Verify(key+"a", stored))
}

func TestVerifier_InvalidHashFormat(t *testing.T) {
	v := NewVerifier("")

	tests := []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"plaintext stored", "AbCdEfGh.secret"},
		{"unknown algorithm", "$scrypt$ln=15$abc$def"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"zero iterations", "$argon2id$v=19$m=19456,t=0,p=1$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"truncated bcrypt", "$2a$10$abc"},
		{"pbkdf2 bad iterations", "pbkdf2_sha256$zero$salt$aGFzaA=="},
		{"pbkdf2 missing digest", "pbkdf2_sha256$1000$salt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, v.Verify("AbCdEfGh.secret", tt.hash))
		})
	}
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("", "p")
	require.NoError(t, err)
	require.IsType(t, &Argon2idHasher{}, h)

	h, err = NewHasher(AlgorithmBcrypt, "p")
	require.NoError(t, err)
	require.IsType(t, &BcryptHasher{}, h)

	_, err = NewHasher("md5", "")
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestLoadOrGeneratePepper(t *testing.T) {
	pepper, err := LoadOrGeneratePepper("")
	require.NoError(t, err)
	require.Empty(t, pepper)

	path := t.TempDir() + "/nested/pepper"
	first, err := LoadOrGeneratePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := LoadOrGeneratePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "pepper should be persisted and reloaded")
}
