// Package httputil provides the HTTP client used to fetch remote license files.
//
// # Overview
//
// A handful of dependencies do not ship their license text in the release
// distribution, so the correction table points at a raw URL instead (see
// pkg/deps policy data). This package performs those fetches.
//
// There is no retry, no backoff, and no response caching. Every run is
// independent and a failed fetch aborts the whole run; a compliance report
// must never be assembled from stale license text.
//
// Usage:
//
//	client := httputil.NewClient()
//	text, err := client.GetText(ctx, "https://raw.githubusercontent.com/x/y/LICENSE")
package httputil

import (
	"context"
	"io"
	"net/http"

	"github.com/matzehuels/depsummary/pkg/errors"
)

// userAgent identifies the tool to license file hosts.
const userAgent = "depsummary/1.0 (https://github.com/matzehuels/depsummary)"

// Client fetches plain-text documents over HTTP.
// The zero value is not usable; construct with [NewClient].
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with the default User-Agent header.
func NewClient() *Client {
	return &Client{
		http:    &http.Client{},
		headers: map[string]string{"User-Agent": userAgent},
	}
}

// GetText performs an HTTP GET request and returns the response body as a
// string. Any status outside the 2xx range is an error; the body is decoded
// as UTF-8 text.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	if err := errors.ValidateURL(url); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "building request for %s", url)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "fetching %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.New(errors.ErrCodeNetwork, "fetching %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "reading body of %s", url)
	}
	return string(data), nil
}
