package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leaseline/internal/app"
)

// Client looks up the users holding a functional role for a party.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Timeout:    10 * time.Second,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("role lookup error: status=%d body=%s", e.StatusCode, e.Body)
}

// UsersForRole returns the user ids holding the named functional role for
// the party.
func (c *Client) UsersForRole(ctx context.Context, partyID, role string) ([]string, error) {
	// Shared across concurrent dispatches; never write to the receiver here.
	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: c.Timeout}
	}
	endpoint := fmt.Sprintf("%s/party/%s/users/%s",
		strings.TrimRight(c.BaseURL, "/"), url.PathEscape(partyID), url.PathEscape(role))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	r := app.FromContext(ctx)
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	if r.RequestID != "" {
		req.Header.Set("X-Request-Id", r.RequestID)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	var out struct {
		UserIDs []string `json:"userIds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.UserIDs, nil
}
