package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/apikey/pkg/slogx"
)

// DefaultKeyHeader is the header API keys are presented in.
const DefaultKeyHeader = "Api-Key"

// KeyValidator answers whether a presented API key is currently valid.
type KeyValidator interface {
	IsValid(ctx context.Context, key string) bool
}

// KeyValidatorFunc adapts a function to KeyValidator.
type KeyValidatorFunc func(ctx context.Context, key string) bool

func (f KeyValidatorFunc) IsValid(ctx context.Context, key string) bool { return f(ctx, key) }

// KeyParser extracts the raw key from a request.
type KeyParser struct {
	// Header name; DefaultKeyHeader when empty.
	Header string
}

// Parse returns the presented key, or "" when none was sent.
func (p KeyParser) Parse(r *http.Request) string {
	h := p.Header
	if h == "" {
		h = DefaultKeyHeader
	}
	return strings.TrimSpace(r.Header.Get(h))
}

// RequireAPIKey lets a request through only if it carries a valid API key.
// A validator that panics denies the request.
func RequireAPIKey(v KeyValidator, p KeyParser) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := p.Parse(r)
			if key == "" {
				WriteError(w, http.StatusUnauthorized, "missing_api_key", "API key required")
				return
			}
			if !safeIsValid(r.Context(), v, key) {
				WriteError(w, http.StatusUnauthorized, "invalid_api_key", "API key is invalid, revoked or expired")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func safeIsValid(ctx context.Context, v KeyValidator, key string) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slogx.FromContext(ctx).Error("api key validator panicked", "panic", rec)
			ok = false
		}
	}()
	return v.IsValid(ctx, key)
}
