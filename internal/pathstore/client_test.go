package pathstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKV is an in-memory stand-in for the pathstore HTTP API.
type fakeKV struct {
	mu     sync.Mutex
	nodes  map[string]json.RawMessage
	status int
	auth   string
}

func newFakeKV() *fakeKV {
	return &fakeKV{nodes: make(map[string]json.RawMessage)}
}

func (f *fakeKV) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = r.Header.Get("Authorization")
	if f.status != 0 {
		http.Error(w, "boom", f.status)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch r.Method {
	case http.MethodPut:
		var req NodeRequest
		raw := json.RawMessage{}
		req.Value = &raw
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.nodes[key] = raw
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		if prefix, ok := strings.CutSuffix(key, "/*"); ok {
			var nodes []map[string]any
			for k, v := range f.nodes {
				if strings.HasPrefix(k, prefix+"/") {
					nodes = append(nodes, map[string]any{"key_path": k, "value": v})
				}
			}
			json.NewEncoder(w).Encode(map[string]any{"nodes": nodes})
			return
		}
		v, ok := f.nodes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"key_path": key, "value": v})
	case http.MethodDelete:
		if _, ok := f.nodes[key]; !ok {
			http.NotFound(w, r)
			return
		}
		delete(f.nodes, key)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (f *fakeKV) setStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = code
}

func (f *fakeKV) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Diggers_Hotline_Ticket_2024.txt": "diggers-hotline-ticket-2024-txt",
		"  IUPPS 2024-05-14 - 1  ":        "iupps-2024-05-14-1",
		"---":                             "",
		strings.Repeat("a", 60):           strings.Repeat("a", 50),
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestTicketKey(t *testing.T) {
	assert.Equal(t, "tickets/iupps/iupps-2024-05-14-1", TicketKey("iupps", "IUPPS 2024-05-14 - 1"))
	assert.Equal(t, "tickets/by_hash/abc", HashKey("abc"))
}

func TestTicketName(t *testing.T) {
	hash := "0123456789abcdef"
	assert.Equal(t, "iupps-ticket-01234567", TicketName("IUPPS_Ticket", hash))
	assert.Equal(t, "01234567", TicketName("---", hash))
	assert.Equal(t, "attachments", TicketName("attachments", ""))

	long := TicketName(strings.Repeat("excavation ", 10), hash)
	assert.LessOrEqual(t, len(long), 50)
	assert.True(t, strings.HasSuffix(long, "-01234567"), long)
	assert.Equal(t, "tickets/iupps/"+long, TicketKey("iupps", long), "slugging the name again must keep the hash")
}

func TestSaveFindListDelete(t *testing.T) {
	kv := newFakeKV()
	srv := httptest.NewServer(kv)
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	defer c.Close()
	ctx := context.Background()

	err := c.SaveTicket(ctx, Ticket{
		Format:      "diggers",
		Key:         "20241234567",
		Filename:    "Diggers_Hotline_Ticket_20241234567.txt",
		Record:      map[string]string{"ticket": "20241234567"},
		ContentHash: "h1",
		CreatedAt:   time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", kv.lastAuth())

	key, found, err := c.FindByHash(ctx, "h1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tickets/diggers/20241234567", key)

	_, found, err = c.FindByHash(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	list, err := c.ListTickets(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "tickets/diggers/20241234567", list[0].Key)

	require.NoError(t, c.DeleteTicket(ctx, "diggers", "20241234567"))
	_, found, err = c.FindByHash(ctx, "h1")
	require.NoError(t, err)
	assert.False(t, found, "hash index should be removed with the ticket")
	assert.ErrorIs(t, c.DeleteTicket(ctx, "diggers", "20241234567"), ErrNotFound)
}

func TestRetryableStatus(t *testing.T) {
	kv := newFakeKV()
	srv := httptest.NewServer(kv)
	defer srv.Close()
	c := NewClient(srv.URL, "k")

	kv.setStatus(http.StatusServiceUnavailable)
	err := c.PutNode(context.Background(), "tickets/x/y", NodeRequest{Value: 1})
	var retryErr *RetryableError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, http.StatusServiceUnavailable, retryErr.StatusCode)

	kv.setStatus(http.StatusBadRequest)
	err = c.PutNode(context.Background(), "tickets/x/y", NodeRequest{Value: 1})
	require.Error(t, err)
	assert.False(t, errors.As(err, &retryErr))
}

func TestTransportErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "k")
	err := c.PutNode(context.Background(), "a", NodeRequest{Value: 1})
	var retryErr *RetryableError
	assert.True(t, errors.As(err, &retryErr))
}

func TestRequestShapes(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		mu.Unlock()
		http.NotFound(w, r)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "k")
	ctx := context.Background()

	nodes, err := c.ListChildren(ctx, "tickets/iupps", 25)
	require.NoError(t, err)
	assert.Empty(t, nodes)

	node, err := c.GetNode(ctx, "tickets/iupps/x")
	require.NoError(t, err)
	assert.Nil(t, node)

	assert.ErrorIs(t, c.DeleteNode(ctx, "tickets/iupps", true), ErrNotFound)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"GET /kv/tickets/iupps/*?limit=25",
		"GET /kv/tickets/iupps/x",
		"DELETE /kv/tickets/iupps?children=true",
	}, seen)
}
