package keysdk

import "time"

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthResponse represents health check endpoint responses.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency in /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}

// APIKeyInfo describes a stored key. The plaintext key is never part of it.
type APIKeyInfo struct {
	ID         string     `json:"id"`
	Prefix     string     `json:"prefix"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	HasExpired bool       `json:"has_expired"`
	Revoked    bool       `json:"revoked"`
}

// CreateKeyRequest is the body of POST /v1/keys. An id, if sent, is ignored.
type CreateKeyRequest struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

// CreateKeyResponse carries the only copy of the plaintext key.
type CreateKeyResponse struct {
	Key     string     `json:"key"`
	Warning string     `json:"warning"`
	APIKey  APIKeyInfo `json:"api_key"`
}

// ListKeysResponse wraps GET /v1/keys.
type ListKeysResponse struct {
	Keys []APIKeyInfo `json:"keys"`
}

// UpdateKeyRequest is the body of PATCH /v1/keys/{id}. Omitted fields are
// left unchanged.
type UpdateKeyRequest struct {
	Name        *string    `json:"name,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	ClearExpiry bool       `json:"clear_expiry,omitempty"`
	Revoked     *bool      `json:"revoked,omitempty"`
}

// ListKeysOptions are the query parameters of GET /v1/keys.
type ListKeysOptions struct {
	UsableOnly bool
	Search     string
	Revoked    *bool
	Limit      int
	Offset     int
}

// PingResponse is returned by the API key protected GET /v1/ping.
type PingResponse struct {
	Status string `json:"status"`
}
