package web

// handlers_search.go covers the lookup surface: typed queries, reset, and
// the recent lookup history. Scan decodes resolve through the same service
// path, so nothing here is duplicated on the scanner side.

import (
	"net/http"

	"github.com/LeoAbril98/localizar/internal/core"
)

// handleSearch submits a typed query and returns the resulting state. When
// the q parameter is absent the current state is returned without side
// effects, which is how the page refreshes after a scan decode. A miss is
// part of the state, not an HTTP error, so the UI renders both outcomes
// from one shape.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("q") {
		writeJSON(w, s.service.Query())
		return
	}

	state := s.service.Submit(r.URL.Query().Get("q"), core.SourceTyped)
	writeJSON(w, state)
}

// handleSearchReset clears the displayed result without touching the
// dataset.
func (s *Server) handleSearchReset(w http.ResponseWriter, r *http.Request) {
	s.service.Reset()
	writeJSON(w, map[string]string{"status": "reset"})
}

// handleHistory returns recent lookups, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 20)
	entries := s.service.RecentLookups(limit)
	if entries == nil {
		entries = []core.LookupEntry{}
	}
	writeJSON(w, entries)
}
