package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client fetches the aggregated payload from another instance's public
// read endpoint. Missing configuration is tolerated at construction and
// surfaces as fetch errors, never a startup crash.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a dashboard client for the given endpoint. Either
// argument may be empty; Fetch will then fail with a clear error.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Fetch retrieves the dashboard payload, decoding the standard
// {success, data, error} envelope. A success:false response becomes an
// error carrying the server's message.
func (c *Client) Fetch(ctx context.Context) (*Payload, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, fmt.Errorf("dashboard endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/dashboard", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dashboard fetch: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("dashboard fetch: decoding response: %w", err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("dashboard fetch: %s", msg)
	}

	var payload Payload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, fmt.Errorf("dashboard fetch: decoding payload: %w", err)
	}
	return &payload, nil
}
