package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dgallion1/ticketgest/internal/extract"
	"github.com/dgallion1/ticketgest/internal/onecall"
	"github.com/dgallion1/ticketgest/internal/report"
)

const maxTextBody = 1 << 20

type resolveRequest struct {
	Href   string `json:"href"`
	Origin string `json:"origin"`
}

// handleResolve rewrites an attachment link to its download URL.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxTextBody)).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Href) == "" {
		jsonError(w, "href is required", http.StatusBadRequest)
		return
	}

	url, rule := extract.ClassifyAttachmentURL(req.Href, s.origin(req.Origin))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"url":  url,
		"rule": rule,
	})
}

// handleParseReport parses a plain-text ticket report.
func (s *Server) handleParseReport(w http.ResponseWriter, r *http.Request) {
	rep, err := report.Parse(io.LimitReader(r.Body, maxTextBody))
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, report.ErrBadCoordinate) {
			code = http.StatusUnprocessableEntity
		}
		jsonError(w, err.Error(), code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":    rep.Filename,
		"info":        rep.Info,
		"coordinate1": rep.Coord1,
		"coordinate2": rep.Coord2,
		"bounds":      rep.Bounds(),
		"contact":     rep.Contact(),
		"first_name":  rep.FirstName(),
	})
}

// handleOneCall reads customer and location details from OneCall XML.
func (s *Server) handleOneCall(w http.ResponseWriter, r *http.Request) {
	t, err := onecall.Parse(io.LimitReader(r.Body, maxTextBody))
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}
