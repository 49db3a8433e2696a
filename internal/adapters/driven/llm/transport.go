package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Transport sends JSON requests to one provider's HTTP API.
// Non-2xx answers become *domain.UpstreamError.
type Transport struct {
	provider string
	baseURL  string
	client   *http.Client
	header   http.Header
}

// NewTransport creates a transport. header is sent with every request.
func NewTransport(provider, baseURL string, timeout time.Duration, header http.Header) *Transport {
	if header == nil {
		header = http.Header{}
	}
	return &Transport{
		provider: provider,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		header:   header,
	}
}

// BaseURL returns the API base URL.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Timeout returns the per-request timeout.
func (t *Transport) Timeout() time.Duration {
	return t.client.Timeout
}

// PostJSON posts in to path and decodes the answer into out.
func (t *Transport) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UpstreamError(t.provider, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Check issues a GET to path and expects 200. Providers use it as a cheap
// credentials probe.
func (t *Transport) Check(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create ping request: %w", t.provider, err)
	}

	resp, err := t.do(req)
	if err != nil {
		return fmt.Errorf("%s: ping failed: %w", t.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UpstreamError(t.provider, resp)
	}
	return nil
}

func (t *Transport) do(req *http.Request) (*http.Response, error) {
	for k, vs := range t.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return t.client.Do(req)
}
