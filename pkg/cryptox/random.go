package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphanumeric is the alphabet used for key prefixes and secrets.
const Alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var alphabetSize = big.NewInt(int64(len(Alphanumeric)))

// RandomString returns n characters drawn uniformly from Alphanumeric using
// crypto/rand.
//
// A failing random source leaves the process unable to issue safe
// credentials, so this panics instead of returning an error.
func RandomString(n int) string {
	if n <= 0 {
		return ""
	}

	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			panic(fmt.Sprintf("cryptox: random source failed: %v", err))
		}
		out[i] = Alphanumeric[idx.Int64()]
	}
	return string(out)
}
