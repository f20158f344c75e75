package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/apikey/internal/apikey/service"
	"github.com/aussiebroadwan/apikey/internal/apikey/store/drivers/sqlite"
	"github.com/aussiebroadwan/apikey/pkg/cryptox"
	"github.com/aussiebroadwan/apikey/pkg/jwtx"
	"github.com/aussiebroadwan/apikey/pkg/keysdk"
)

const testIssuer = "apikey-test"

type testEnv struct {
	router *Router
	signer *jwtx.HS256
	logs   *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte(strings.Repeat("s", 32)), testIssuer)
	require.NoError(t, err)

	gen := cryptox.NewKeyGenerator(cryptox.WithHasher(&cryptox.Argon2idHasher{
		Params: cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 16, SaltLength: 16},
	}))

	logs := &bytes.Buffer{}
	reg := prometheus.NewRegistry()
	r := NewRouter(signer, "test", st, slog.New(slog.NewJSONHandler(logs, nil)))
	r.KeyService = service.NewKeyService(st, service.NewMetrics(reg), service.WithKeyGenerator(gen))
	r.Gatherer = reg
	r.ApplyRoutes()

	return &testEnv{router: r, signer: signer, logs: logs}
}

func (e *testEnv) token(t *testing.T, scopes ...string) string {
	t.Helper()
	tok, err := e.signer.Sign(jwtx.NewAdminClaims("ops", testIssuer, scopes, time.Hour, time.Now()))
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func keyPath(id string, suffix ...string) string {
	return "/v1/keys/" + url.PathEscape(id) + strings.Join(suffix, "")
}

func TestRouter_KeyLifecycle(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, jwtx.ScopeKeysWrite)

	rec := env.do(t, http.MethodPost, "/v1/keys", tok, keysdk.CreateKeyRequest{ID: "ignored", Name: "  billing  "})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[keysdk.CreateKeyResponse](t, rec)
	require.NotEmpty(t, created.Key)
	require.Equal(t, OneTimeWarning, created.Warning)
	require.Equal(t, "billing", created.APIKey.Name)
	require.NotEqual(t, "ignored", created.APIKey.ID)
	require.True(t, strings.HasPrefix(created.Key, created.APIKey.Prefix+"."))

	ping := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	ping.Header.Set("Api-Key", created.Key)
	pingRec := httptest.NewRecorder()
	env.router.ServeHTTP(pingRec, ping)
	require.Equal(t, http.StatusOK, pingRec.Code)

	rec = env.do(t, http.MethodGet, keyPath(created.APIKey.ID), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[keysdk.APIKeyInfo](t, rec)
	require.Equal(t, created.APIKey.Prefix, got.Prefix)
	require.False(t, got.Revoked)

	rec = env.do(t, http.MethodPost, keyPath(created.APIKey.ID, "/revoke"), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decode[keysdk.APIKeyInfo](t, rec).Revoked)

	pingRec = httptest.NewRecorder()
	env.router.ServeHTTP(pingRec, ping)
	require.Equal(t, http.StatusUnauthorized, pingRec.Code)
	require.Equal(t, keysdk.ErrorCodeInvalidAPIKey, decode[keysdk.ErrorResponse](t, pingRec).Error)

	unrevoke := false
	rec = env.do(t, http.MethodPatch, keyPath(created.APIKey.ID), tok, keysdk.UpdateKeyRequest{Revoked: &unrevoke})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, keysdk.ErrorCodeKeyRevoked, decode[keysdk.ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodDelete, keyPath(created.APIKey.ID), tok, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, keyPath(created.APIKey.ID), tok, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, keysdk.ErrorCodeNotFound, decode[keysdk.ErrorResponse](t, rec).Error)
}

func TestRouter_AuditLogsCarrySubject(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, jwtx.ScopeKeysWrite)

	rec := env.do(t, http.MethodPost, "/v1/keys", tok, keysdk.CreateKeyRequest{Name: "audited"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[keysdk.CreateKeyResponse](t, rec).APIKey.ID

	rec = env.do(t, http.MethodPost, keyPath(id, "/revoke"), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, keyPath(id), tok, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	want := map[string]bool{"api key created": false, "api key revoked": false, "api key deleted": false}
	dec := json.NewDecoder(env.logs)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		msg, _ := line["msg"].(string)
		if _, ok := want[msg]; ok {
			require.Equal(t, "ops", line["subject"], msg)
			want[msg] = true
		}
	}
	for msg, seen := range want {
		require.True(t, seen, "missing log line %q", msg)
	}
}

func TestRouter_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, jwtx.ScopeKeysWrite)

	tests := []struct {
		name string
		body string
		code int
		err  string
	}{
		{"bad json", "{", http.StatusBadRequest, keysdk.ErrorCodeInvalidRequest},
		{"blank name", `{"name":"   "}`, http.StatusBadRequest, keysdk.ErrorCodeValidation},
		{"name too long", `{"name":"` + strings.Repeat("x", 51) + `"}`, http.StatusBadRequest, keysdk.ErrorCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/keys", strings.NewReader(tt.body))
			req.Header.Set("Authorization", "Bearer "+tok)
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			require.Equal(t, tt.code, rec.Code)
			require.Equal(t, tt.err, decode[keysdk.ErrorResponse](t, rec).Error)
		})
	}
}

func TestRouter_ListAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, jwtx.ScopeKeysWrite)

	var ids []string
	for _, name := range []string{"alpha", "beta", "gamma"} {
		rec := env.do(t, http.MethodPost, "/v1/keys", tok, keysdk.CreateKeyRequest{Name: name})
		require.Equal(t, http.StatusCreated, rec.Code)
		ids = append(ids, decode[keysdk.CreateKeyResponse](t, rec).APIKey.ID)
	}

	rec := env.do(t, http.MethodPost, keyPath(ids[1], "/revoke"), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/keys", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[keysdk.ListKeysResponse](t, rec).Keys, 3)

	rec = env.do(t, http.MethodGet, "/v1/keys?usable=true", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[keysdk.ListKeysResponse](t, rec).Keys, 2)

	rec = env.do(t, http.MethodGet, "/v1/keys?revoked=true", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	revoked := decode[keysdk.ListKeysResponse](t, rec).Keys
	require.Len(t, revoked, 1)
	require.Equal(t, ids[1], revoked[0].ID)

	rec = env.do(t, http.MethodGet, "/v1/keys?search=gamma", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[keysdk.ListKeysResponse](t, rec).Keys
	require.Len(t, found, 1)
	require.Equal(t, "gamma", found[0].Name)

	rec = env.do(t, http.MethodGet, "/v1/keys?limit=nope", tok, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	past := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)
	name := "alpha-renamed"
	rec = env.do(t, http.MethodPatch, keyPath(ids[0]), tok, keysdk.UpdateKeyRequest{Name: &name, ExpiryDate: &past})
	require.Equal(t, http.StatusOK, rec.Code)
	upd := decode[keysdk.APIKeyInfo](t, rec)
	require.Equal(t, name, upd.Name)
	require.True(t, upd.HasExpired)
	require.NotNil(t, upd.ExpiryDate)

	rec = env.do(t, http.MethodPatch, keyPath(ids[0]), tok, keysdk.UpdateKeyRequest{ClearExpiry: true})
	require.Equal(t, http.StatusOK, rec.Code)
	upd = decode[keysdk.APIKeyInfo](t, rec)
	require.Nil(t, upd.ExpiryDate)
	require.False(t, upd.HasExpired)

	rec = env.do(t, http.MethodPatch, keyPath("missing"), tok, keysdk.UpdateKeyRequest{Name: &name})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AdminAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/keys", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, keysdk.ErrorCodeInvalidToken, decode[keysdk.ErrorResponse](t, rec).Error)

	readOnly := env.token(t, jwtx.ScopeKeysRead)
	rec = env.do(t, http.MethodGet, "/v1/keys", readOnly, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/keys", readOnly, keysdk.CreateKeyRequest{Name: "x"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, keysdk.ErrorCodeInsufficientScope, decode[keysdk.ErrorResponse](t, rec).Error)

	rec = env.do(t, http.MethodGet, "/v1/keys", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Ping(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		key  string
		code int
		err  string
	}{
		{"missing", "", http.StatusUnauthorized, keysdk.ErrorCodeMissingAPIKey},
		{"no separator", "abcdefgh", http.StatusUnauthorized, keysdk.ErrorCodeInvalidAPIKey},
		{"unknown", "abcdefgh.secret", http.StatusUnauthorized, keysdk.ErrorCodeInvalidAPIKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
			if tt.key != "" {
				req.Header.Set("Api-Key", tt.key)
			}
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			require.Equal(t, tt.code, rec.Code)
			require.Equal(t, tt.err, decode[keysdk.ErrorResponse](t, rec).Error)
		})
	}
}

func TestRouter_System(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", decode[keysdk.HealthResponse](t, rec).Version)

	rec = env.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[keysdk.HealthResponse](t, rec)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)

	tok := env.token(t, jwtx.ScopeKeysWrite)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/v1/keys", tok, keysdk.CreateKeyRequest{Name: "m"}).Code)

	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "apikey_keys_created_total 1")
}
