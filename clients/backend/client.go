package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pulsarbot/clients"
	"pulsarbot/core"
)

// BackendClient implements the clients.BackendClient interface over HTTP
type BackendClient struct {
	httpClient *http.Client
	// apiURL is the backend base URL without a trailing slash
	apiURL string
	// apiKey is sent verbatim in the Authorization header
	apiKey string
	// timeout bounds each call when non-zero
	timeout time.Duration
}

// NewBackendClient creates a new client for the user-management API
func NewBackendClient(httpClient *http.Client, apiURL, apiKey string, timeout time.Duration) clients.BackendClient {
	return &BackendClient{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(apiURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
	}
}

// Get issues an authenticated GET and returns the raw response body
func (c *BackendClient) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.apiURL+path)
}

// Post issues an authenticated POST with query encoded into the URL.
// The response body is not consulted.
func (c *BackendClient) Post(ctx context.Context, path string, query url.Values) error {
	target := c.apiURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	_, err := c.do(ctx, http.MethodPost, target)
	return err
}

func (c *BackendClient) do(ctx context.Context, method, target string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, core.Wrap(err, core.KindTransport, fmt.Sprintf("failed to create %s request", method))
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.Wrap(err, core.KindTransport, fmt.Sprintf("failed to execute %s request", method))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.Wrap(err, core.KindTransport, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &clients.HTTPStatusError{StatusCode: resp.StatusCode, Body: body}
		return nil, core.FromCause(statusErr, core.KindTransport).Attachf("%s %s", method, req.URL.Path)
	}

	return body, nil
}
