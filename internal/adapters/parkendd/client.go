// internal/adapters/parkendd/client.go
package parkendd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"parkendd/internal/adapters/observability"
	"parkendd/internal/domain"
)

// TimespanLayout is the format of the from/to query parameters.
const TimespanLayout = "2006-01-02T15:04:05"

type Client struct {
	base     string
	notifURL string
	hc       *http.Client
}

// New builds a client for the API rooted at base. A nil hc gets an
// http.Client without timeout; every request is attempted exactly once.
func New(base, notificationURL string, hc *http.Client) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{base: base, notifURL: notificationURL, hc: hc}, nil
}

// ---- Public API ----

func (c *Client) GetMetadata(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "metadata", c.base)
}

func (c *Client) GetCityLots(ctx context.Context, city string) (json.RawMessage, error) {
	u, err := url.JoinPath(c.base, city)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRequest, err)
	}
	return c.get(ctx, "lots", u)
}

// GetTimespan formats both bounds in their own location; no zone conversion.
func (c *Client) GetTimespan(ctx context.Context, city, lotID string, from, to time.Time) (json.RawMessage, error) {
	u, err := url.JoinPath(c.base, city, lotID, "timespan")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRequest, err)
	}
	q := url.Values{}
	q.Set("from", from.Format(TimespanLayout))
	q.Set("to", to.Format(TimespanLayout))
	return c.get(ctx, "timespan", u+"?"+q.Encode())
}

func (c *Client) GetNotification(ctx context.Context) (json.RawMessage, error) {
	if c.notifURL == "" {
		return nil, fmt.Errorf("%w: notification URL not configured", domain.ErrRequest)
	}
	return c.get(ctx, "notification", c.notifURL)
}

// ---- Internals ----

// get performs a single GET. No response or a non-200 status is ErrRequest;
// a 200 whose body cannot be read as JSON is ErrServer.
func (c *Client) get(ctx context.Context, endpoint, u string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "parkendd-client/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("parkendd", endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("%w: %v", domain.ErrRequest, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("parkendd", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrRequest, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrServer, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", domain.ErrServer)
	}
	return json.RawMessage(body), nil
}
