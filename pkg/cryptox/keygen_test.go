package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fastHasher keeps argon2id but with parameters cheap enough for bulk tests.
func fastHasher() Hasher {
	return &Argon2idHasher{Params: Argon2Params{
		Memory:      64,
		Iterations:  1,
		Parallelism: 1,
		KeyLength:   16,
		SaltLength:  16,
	}}
}

func TestKeyGenerator_Defaults(t *testing.T) {
	g := NewKeyGenerator()
	require.Equal(t, DefaultPrefixLength, g.PrefixLength)
	require.Equal(t, DefaultSecretLength, g.SecretLength)

	key, prefix, hashed, err := g.Generate()
	require.NoError(t, err)

	require.Len(t, prefix, 8)
	require.Len(t, key, 8+1+32)
	require.True(t, strings.HasPrefix(key, prefix+"."))
	require.True(t, strings.HasPrefix(hashed, "$argon2id$v=19$"))
	require.NotContains(t, hashed, key)

	require.True(t, NewVerifier("").Verify(key, hashed))
}

func TestKeyGenerator_Options(t *testing.T) {
	g := NewKeyGenerator(
		WithPrefixLength(12),
		WithSecretLength(48),
		WithHasher(fastHasher()),
		WithPrefixLength(0), // ignored
	)

	key, prefix, _, err := g.Generate()
	require.NoError(t, err)
	require.Len(t, prefix, 12)
	require.Len(t, key, 12+1+48)
}

func TestKeyGenerator_Alphabet(t *testing.T) {
	g := NewKeyGenerator()
	for range 50 {
		for _, s := range []string{g.GeneratePrefix(), g.GenerateSecret()} {
			for _, c := range s {
				require.True(t, strings.ContainsRune(Alphanumeric, c), "unexpected character %q", c)
			}
		}
	}
}

func TestKeyGenerator_Freshness(t *testing.T) {
	g := NewKeyGenerator(WithHasher(fastHasher()))

	const trials = 10_000
	keys := make(map[string]struct{}, trials)
	prefixes := make(map[string]struct{}, trials)
	hashes := make(map[string]struct{}, trials)

	for range trials {
		key, prefix, hashed, err := g.Generate()
		require.NoError(t, err)

		require.NotContains(t, keys, key)
		require.NotContains(t, prefixes, prefix)
		require.NotContains(t, hashes, hashed)

		keys[key] = struct{}{}
		prefixes[prefix] = struct{}{}
		hashes[hashed] = struct{}{}
	}
}

func TestRandomString(t *testing.T) {
	require.Empty(t, RandomString(0))
	require.Empty(t, RandomString(-3))
	require.Len(t, RandomString(64), 64)
}
