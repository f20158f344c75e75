package keysdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Admin scopes.
const (
	ScopeKeysRead  = "keys:read"
	ScopeKeysWrite = "keys:write"
)

// Session makes administrative calls with an admin bearer token. It is safe
// for concurrent use; its fields never change after NewSession.
type Session struct {
	client *SDKClient

	token     string
	scopes    map[string]bool
	expiresAt time.Time
}

type adminClaims struct {
	jwt.RegisteredClaims

	Scopes []string `json:"scopes,omitempty"`
}

// NewSession builds a session for token. The token's signature is not
// checked here; the server does that. Its scopes and expiry are read so the
// session can fail fast.
func (c *SDKClient) NewSession(token string) (*Session, error) {
	var claims adminClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("keysdk: parse admin token: %w", err)
	}

	s := &Session{
		client: c,
		token:  token,
		scopes: make(map[string]bool, len(claims.Scopes)),
	}
	for _, scope := range claims.Scopes {
		s.scopes[scope] = true
	}
	if claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// HasScope reports whether the session's token grants scope.
func (s *Session) HasScope(scope string) bool {
	return s.scopes[scope]
}

func (s *Session) checkScope(scope string) error {
	if !s.client.CheckScopes || s.scopes[scope] {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingScope, scope)
}

// doAuthRequest performs an authenticated HTTP request after checking scope
// and expiry locally.
func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	requiredScope string,
) (*http.Response, error) {
	if err := s.checkScope(requiredScope); err != nil {
		return nil, err
	}
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return nil, ErrSessionExpired
	}

	headers := map[string]string{"Authorization": "Bearer " + s.token}
	if body != nil {
		headers["Content-Type"] = "application/json"
	}
	return s.client.doRequest(ctx, method, path, body, headers)
}

// CreateKey issues a new API key. The response holds the only copy of the
// plaintext key.
func (s *Session) CreateKey(ctx context.Context, req CreateKeyRequest) (*CreateKeyResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/keys", bytes.NewReader(body), ScopeKeysWrite)
	if err != nil {
		return nil, err
	}

	var out CreateKeyResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListKeys returns keys newest first.
func (s *Session) ListKeys(ctx context.Context, opts ListKeysOptions) ([]APIKeyInfo, error) {
	q := url.Values{}
	if opts.UsableOnly {
		q.Set("usable", "true")
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Revoked != nil {
		q.Set("revoked", strconv.FormatBool(*opts.Revoked))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}

	path := "/v1/keys"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, ScopeKeysRead)
	if err != nil {
		return nil, err
	}

	var out ListKeysResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Keys, nil
}

func (s *Session) GetKey(ctx context.Context, id string) (*APIKeyInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/keys/"+url.PathEscape(id), nil, ScopeKeysRead)
	if err != nil {
		return nil, err
	}

	var out APIKeyInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateKey(ctx context.Context, id string, req UpdateKeyRequest) (*APIKeyInfo, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPatch, "/v1/keys/"+url.PathEscape(id), bytes.NewReader(body), ScopeKeysWrite)
	if err != nil {
		return nil, err
	}

	var out APIKeyInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeKey revokes a key. Revoking twice succeeds.
func (s *Session) RevokeKey(ctx context.Context, id string) (*APIKeyInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/keys/"+url.PathEscape(id)+"/revoke", nil, ScopeKeysWrite)
	if err != nil {
		return nil, err
	}

	var out APIKeyInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteKey(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/keys/"+url.PathEscape(id), nil, ScopeKeysWrite)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
