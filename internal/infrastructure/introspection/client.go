package introspection

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Result carries the RFC 7662 introspection fields this workflow consumes.
// When a token is inactive the authority may return only {"active": false}.
type Result struct {
	Active   bool   `json:"active"`
	Scope    string `json:"scope,omitempty"`
	Username string `json:"username,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Sub      string `json:"sub,omitempty"`
	Exp      int64  `json:"exp,omitempty"`
}

// Introspector asks an authority whether a token is currently valid and what
// it authorizes. Implementations must never mutate the directory.
type Introspector interface {
	Introspect(ctx context.Context, token string) (*Result, error)
}

// Client introspects tokens against an RFC 7662 HTTP endpoint.
type Client struct {
	endpoint   string
	authHeader string // optional Authorization value for the endpoint
	httpClient *http.Client
}

// NewClient builds an introspection client with tuned HTTP transport.
func NewClient(endpoint, authHeader string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		endpoint:   endpoint,
		authHeader: authHeader,
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Introspect submits the token as a form-encoded POST and decodes the
// structured response. A non-200 status or an undecodable body is a transport
// error; deciding what an inactive token means is the caller's job.
func (c *Client) Introspect(ctx context.Context, token string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", "access_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("introspection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("introspection call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("introspection endpoint returned status %d", resp.StatusCode)
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("introspection response: %w", err)
	}
	return &res, nil
}

var _ Introspector = (*Client)(nil)
