package pathstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TicketsPrefix is the root key of all stored tickets.
const TicketsPrefix = "tickets"

// Ticket is the stored form of one extraction result.
type Ticket struct {
	Format      string    `json:"format"`
	Key         string    `json:"key"`
	Filename    string    `json:"filename,omitempty"`
	Record      any       `json:"record"`
	Report      string    `json:"report,omitempty"`
	Missing     []string  `json:"missing,omitempty"`
	Source      string    `json:"source,omitempty"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a URL/path-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s
}

const (
	maxSlugLen    = 50
	hashSuffixLen = 8
)

// TicketName builds the key segment of a stored ticket from its output name
// and content hash. Names alone collide (default names, unknown ticket
// numbers, long names sharing a prefix), so the hash prefix is always
// appended. The result is already a slug and fits the slug length limit.
func TicketName(name, contentHash string) string {
	h := strings.ToLower(contentHash[:min(hashSuffixLen, len(contentHash))])
	slug := Slugify(name)
	if len(slug) > maxSlugLen-hashSuffixLen-1 {
		slug = strings.TrimRight(slug[:maxSlugLen-hashSuffixLen-1], "-")
	}
	switch {
	case h == "":
		return slug
	case slug == "":
		return h
	}
	return slug + "-" + h
}

// TicketKey is the key of a stored ticket.
func TicketKey(format, key string) string {
	return fmt.Sprintf("%s/%s/%s", TicketsPrefix, Slugify(format), Slugify(key))
}

// HashKey is the dedup index entry for a content hash.
func HashKey(contentHash string) string {
	return fmt.Sprintf("%s/by_hash/%s", TicketsPrefix, contentHash)
}

// SaveTicket writes the ticket and then its content-hash index entry.
func (c *Client) SaveTicket(ctx context.Context, t Ticket) error {
	key := TicketKey(t.Format, t.Key)
	if err := c.PutNode(ctx, key, NodeRequest{
		Value:  t,
		Source: t.Source,
	}); err != nil {
		return err
	}
	if t.ContentHash == "" {
		return nil
	}
	return c.PutNode(ctx, HashKey(t.ContentHash), NodeRequest{
		Value: map[string]any{
			"ticket":     key,
			"filename":   t.Filename,
			"created_at": t.CreatedAt.Format(time.RFC3339),
		},
		Source: t.Source,
	})
}

// FindByHash reports whether a ticket with this content hash was stored,
// and the key it was stored under.
func (c *Client) FindByHash(ctx context.Context, contentHash string) (string, bool, error) {
	node, err := c.GetNode(ctx, HashKey(contentHash))
	if err != nil || node == nil {
		return "", false, err
	}
	if m, ok := node.Value.(map[string]any); ok {
		if key, ok := m["ticket"].(string); ok {
			return key, true, nil
		}
	}
	return "", true, nil
}

// ListTickets returns stored tickets, optionally restricted to one format.
func (c *Client) ListTickets(ctx context.Context, format string, limit int) ([]ListChildrenResponse, error) {
	prefix := TicketsPrefix
	if format != "" {
		prefix += "/" + Slugify(format)
	}
	nodes, err := c.ListChildren(ctx, prefix, limit)
	if err != nil {
		return nil, err
	}
	// The hash index lives under the same root.
	out := nodes[:0]
	for _, n := range nodes {
		if strings.Contains(n.Key, "by_hash") {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// DeleteTicket removes one stored ticket and its content-hash index entry,
// so the same file can be extracted again.
func (c *Client) DeleteTicket(ctx context.Context, format, key string) error {
	k := TicketKey(format, key)
	node, err := c.GetNode(ctx, k)
	if err != nil {
		return err
	}
	if node == nil {
		return ErrNotFound
	}
	if err := c.DeleteNode(ctx, k, false); err != nil {
		return err
	}

	m, ok := node.Value.(map[string]any)
	if !ok {
		return nil
	}
	hash, _ := m["content_hash"].(string)
	if hash == "" {
		return nil
	}
	if err := c.DeleteNode(ctx, HashKey(hash), false); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete hash index: %w", err)
	}
	return nil
}
