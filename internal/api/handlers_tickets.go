package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/ticketgest/internal/extract"
	"github.com/dgallion1/ticketgest/internal/pathstore"
	"github.com/go-chi/chi/v5"
)

const defaultTicketLimit = 200

// handleListTickets lists stored tickets, optionally filtered by format.
func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	if s.tickets == nil {
		jsonError(w, "ticket store not configured", http.StatusServiceUnavailable)
		return
	}

	format, ok := extract.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		jsonError(w, "unknown format", http.StatusBadRequest)
		return
	}
	limit := defaultTicketLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	nodes, err := s.tickets.ListTickets(r.Context(), string(format), limit)
	if err != nil {
		s.log.Error("list tickets failed", "error", err)
		jsonError(w, "failed to list tickets: "+err.Error(), http.StatusBadGateway)
		return
	}

	tickets := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		tickets = append(tickets, map[string]any{
			"key":   n.Key,
			"value": n.Value,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"tickets": tickets})
}

// handleDeleteTicket deletes one stored ticket and its dedup entry.
func (s *Server) handleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	if s.tickets == nil {
		jsonError(w, "ticket store not configured", http.StatusServiceUnavailable)
		return
	}

	format := chi.URLParam(r, "format")
	key := chi.URLParam(r, "key")
	if f, ok := extract.ParseFormat(format); !ok || f == extract.FormatUnknown {
		jsonError(w, "unknown format", http.StatusBadRequest)
		return
	}

	err := s.tickets.DeleteTicket(r.Context(), format, key)
	switch {
	case errors.Is(err, pathstore.ErrNotFound):
		jsonError(w, "ticket not found", http.StatusNotFound)
		return
	case err != nil:
		s.log.Error("delete ticket failed", "format", format, "key", key, "error", err)
		jsonError(w, "failed to delete ticket: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"deleted": pathstore.TicketKey(format, key),
	})
}
