package keysdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// DefaultKeyHeader is the header the service reads API keys from unless
// configured otherwise.
const DefaultKeyHeader = "Api-Key"

// SDKClient talks to the API key service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// KeyHeader is the header Ping presents the API key in.
	KeyHeader string

	// CheckScopes makes sessions refuse calls their token cannot make
	// before sending them. Default: true
	CheckScopes bool
}

// NewSDKClient creates a client with scope checking enabled.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		KeyHeader:   DefaultKeyHeader,
		CheckScopes: true,
	}
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service and its database are ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ping calls the API key protected endpoint with apiKey. It returns an
// *APIError with status 401 when the key is rejected.
func (c *SDKClient) Ping(ctx context.Context, apiKey string) (*PingResponse, error) {
	header := c.KeyHeader
	if header == "" {
		header = DefaultKeyHeader
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/ping", nil, map[string]string{header: apiKey})
	if err != nil {
		return nil, err
	}

	var out PingResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
