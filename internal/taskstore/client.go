package taskstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leaseline/internal/app"
	"leaseline/internal/domain"
)

// Client is the authenticated HTTP client for the external task store. The
// store owns task identity and persistence; this client only creates tasks
// and patches their state or metadata.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
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
	return fmt.Sprintf("task store error: status=%d body=%s", e.StatusCode, e.Body)
}

// TasksEndpoint returns the task collection path for a party.
func (c *Client) TasksEndpoint(partyID string) string {
	return fmt.Sprintf("party/%s/tasks", url.PathEscape(partyID))
}

// CreateTask posts a new task to the party's collection.
func (c *Client) CreateTask(ctx context.Context, partyID string, t domain.Task) error {
	return c.do(ctx, http.MethodPost, c.TasksEndpoint(partyID), t, nil)
}

// PatchTask patches an existing task (state and/or metadata).
func (c *Client) PatchTask(ctx context.Context, partyID string, t domain.Task) error {
	return c.do(ctx, http.MethodPatch, c.TasksEndpoint(partyID), t, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	// The client is shared across concurrent dispatches; never write to the
	// receiver here.
	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: c.Timeout}
	}
	u := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	setAuthHeaders(req, app.FromContext(ctx))
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}

// setAuthHeaders stamps the bearer token and correlation headers from the
// dispatch context onto an outgoing request.
func setAuthHeaders(req *http.Request, r app.Request) {
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	if r.RequestID != "" {
		req.Header.Set("X-Request-Id", r.RequestID)
	}
	if len(r.OriginalRequestIDs) > 0 {
		req.Header.Set("X-Original-Request-Ids", strings.Join(r.OriginalRequestIDs, ","))
	}
	if r.DocumentVersion != "" {
		req.Header.Set("X-Document-Version", r.DocumentVersion)
	}
}
