package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds each outbound call, connection to last byte.
const DefaultTimeout = 30 * time.Second

// httpGetter is the shared fetch core of both clients.
type httpGetter struct {
	name   string
	url    string
	client *http.Client
}

// ClientOption configures a source client.
type ClientOption func(*httpGetter)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(g *httpGetter) {
		g.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(g *httpGetter) {
		g.client = client
	}
}

func newGetter(name, url string, opts ...ClientOption) httpGetter {
	g := httpGetter{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

// fetch performs one GET and decodes the JSON body into result. Any
// failure is wrapped in *SourceUnavailableError. No retries.
func (g *httpGetter) fetch(ctx context.Context, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return &SourceUnavailableError{Source: g.name, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return &SourceUnavailableError{Source: g.name, Err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &SourceUnavailableError{Source: g.name, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &SourceUnavailableError{Source: g.name, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}
