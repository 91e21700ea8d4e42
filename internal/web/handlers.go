package web

// handlers.go serves the single page UI and the health probe. Everything
// the page does after loading goes through the JSON API under /api.

import (
	"net/http"
)

// handleIndex serves the lookup page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		s.respondErrorMsg(w, r, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleHealthz reports liveness plus the dataset and upload limiter state
// for station monitoring.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"dataset": s.service.DatasetSummary(),
		"uploads": s.service.UploadLimiterStatus(),
	})
}
