// Package pathstore is a client for the pathstore KV service, where
// extracted tickets are persisted.
package pathstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to the pathstore HTTP API. Keys are slash-separated paths
// under /kv/.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// NodeRequest is the body of PUT /kv/{key}.
type NodeRequest struct {
	Value     any    `json:"value"`
	MergeMode string `json:"merge_mode,omitempty"`
	Source    string `json:"source,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// NodeResponse is the body of GET /kv/{key}.
type NodeResponse struct {
	Key   string `json:"key_path"`
	Value any    `json:"value"`
}

// ListChildrenResponse is one node of a prefix scan.
type ListChildrenResponse struct {
	Key   string `json:"key_path"`
	Value any    `json:"value"`
}

// call describes one request. A response status in ok is decoded into out
// (when out is non-nil); a status equal to absent is reported through the
// returned bool instead of an error.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	out    any
	ok     []int
	absent int
}

// do runs c and reports whether the key existed. Transport failures are
// retryable; other statuses go through statusError.
func (c *Client) do(ctx context.Context, rc call) (bool, error) {
	var body io.Reader
	if rc.body != nil {
		data, err := json.Marshal(rc.body)
		if err != nil {
			return false, fmt.Errorf("%s: marshal: %w", rc.op, err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + "/kv/" + rc.path
	if len(rc.query) > 0 {
		u += "?" + rc.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, rc.method, u, body)
	if err != nil {
		return false, fmt.Errorf("%s: create request: %w", rc.op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, &RetryableError{Err: fmt.Errorf("%s: %w", rc.op, err)}
	}
	defer resp.Body.Close()

	switch {
	case rc.absent != 0 && resp.StatusCode == rc.absent:
		return false, nil
	case !slices.Contains(rc.ok, resp.StatusCode):
		return false, statusError(rc.op+" "+rc.path, resp)
	case rc.out != nil:
		if err := json.NewDecoder(resp.Body).Decode(rc.out); err != nil {
			return false, fmt.Errorf("%s: decode: %w", rc.op, err)
		}
	}
	return true, nil
}

// PutNode stores or replaces the node at key.
func (c *Client) PutNode(ctx context.Context, key string, req NodeRequest) error {
	_, err := c.do(ctx, call{
		op:     "put node",
		method: http.MethodPut,
		path:   key,
		body:   req,
		ok:     []int{http.StatusOK, http.StatusCreated},
	})
	return err
}

// GetNode returns the node at key, or nil, nil when it does not exist.
func (c *Client) GetNode(ctx context.Context, key string) (*NodeResponse, error) {
	var node NodeResponse
	found, err := c.do(ctx, call{
		op:     "get node",
		method: http.MethodGet,
		path:   key,
		out:    &node,
		ok:     []int{http.StatusOK},
		absent: http.StatusNotFound,
	})
	if err != nil || !found {
		return nil, err
	}
	return &node, nil
}

// DeleteNode deletes the node at key, and its children when recursive is
// set. A missing key yields ErrNotFound.
func (c *Client) DeleteNode(ctx context.Context, key string, recursive bool) error {
	var q url.Values
	if recursive {
		q = url.Values{"children": {"true"}}
	}
	found, err := c.do(ctx, call{
		op:     "delete node",
		method: http.MethodDelete,
		path:   key,
		query:  q,
		ok:     []int{http.StatusOK, http.StatusNoContent},
		absent: http.StatusNotFound,
	})
	if err == nil && !found {
		return ErrNotFound
	}
	return err
}

// ListChildren scans the nodes under prefix. A missing prefix yields no
// nodes; limit <= 0 leaves the server default.
func (c *Client) ListChildren(ctx context.Context, prefix string, limit int) ([]ListChildrenResponse, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var result struct {
		Nodes []ListChildrenResponse `json:"nodes"`
	}
	_, err := c.do(ctx, call{
		op:     "list children",
		method: http.MethodGet,
		path:   prefix + "/*",
		query:  q,
		out:    &result,
		ok:     []int{http.StatusOK},
		absent: http.StatusNotFound,
	})
	if err != nil {
		return nil, err
	}
	return result.Nodes, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
