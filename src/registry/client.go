package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client fetches repository listings and file bodies from a Hugging Face
// Hub–style API.
type Client struct {
	// BaseURL is the registry host, e.g. "https://huggingface.co". No
	// trailing slash.
	BaseURL string
	// Token, if set, is sent as a bearer token — needed for gated or
	// private repositories, the way other_examples'
	// bodaay-HuggingFaceModelDownloader Settings.Token field does.
	Token string
	// UserAgent identifies this client to the registry.
	UserAgent string

	HTTPClient *http.Client
}

// NewClient returns a Client with a default http.Client if one is not
// supplied by the caller via the HTTPClient field afterward.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		UserAgent:  "archiveforge/1.0",
		HTTPClient: http.DefaultClient,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

// List enumerates the file entries of repo at rev, in registry order,
// filtered to type "file". rev defaults to DefaultRevision if empty.
func (c *Client) List(ctx context.Context, repo, rev string) ([]Entry, error) {
	rev = Revision(rev)
	treeURL := fmt.Sprintf("%s/api/models/%s/tree/%s", c.BaseURL, repo, url.PathEscape(rev))
	req, err := c.newRequest(ctx, treeURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrListFailed, err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrListFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrListFailed, treeURL, resp.StatusCode)
	}
	var all []Entry
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		return nil, fmt.Errorf("%w: decode tree response: %s", ErrListFailed, err)
	}
	files := make([]Entry, 0, len(all))
	for _, e := range all {
		if e.IsFile() {
			files = append(files, e)
		}
	}
	return files, nil
}

// Open fetches path's body at rev. The returned int64 is the
// Content-Length hint, or -1 if the registry did not send one. The caller
// must Close the returned reader.
func (c *Client) Open(ctx context.Context, repo, rev, path string) (io.ReadCloser, int64, error) {
	rev = Revision(rev)
	blobURL := fmt.Sprintf("%s/%s/resolve/%s/%s", c.BaseURL, repo, url.PathEscape(rev), escapePath(path))
	req, err := c.newRequest(ctx, blobURL)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrFetchFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, 0, fmt.Errorf("%w: %s returned %d", ErrFetchFailed, blobURL, resp.StatusCode)
	}
	if resp.Body == nil {
		return nil, 0, fmt.Errorf("%w: %s returned no body", ErrFetchFailed, blobURL)
	}
	return resp.Body, resp.ContentLength, nil
}

// escapePath percent-encodes each path segment while preserving "/".
func escapePath(p string) string {
	var out []byte
	for i := 0; i < len(p); {
		j := i
		for j < len(p) && p[j] != '/' {
			j++
		}
		out = append(out, []byte(url.PathEscape(p[i:j]))...)
		if j < len(p) {
			out = append(out, '/')
			j++
		}
		i = j
	}
	return string(out)
}
