package web

// handlers_data.go covers the dataset surface: the live summary, explicit
// reset, and read-only upload analysis.

import (
	"net/http"
)

// handleDatasetSummary returns a summary of the live dataset. An empty
// summary with loaded=false means no sheet has been uploaded yet.
func (s *Server) handleDatasetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.DatasetSummary())
}

// handleClearDataset drops the live dataset together with the displayed
// query state and the lookup history, and returns the now-empty summary.
func (s *Server) handleClearDataset(w http.ResponseWriter, r *http.Request) {
	s.service.ClearDataset()
	writeJSON(w, s.service.DatasetSummary())
}

// handlePreview analyzes a sheet and reports what an upload would load,
// without touching the live dataset.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	data, fileName, ok := s.readUploadFile(w, r)
	if !ok {
		return
	}

	result, err := s.service.AnalyzeUpload(r.Context(), fileName, data)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, result)
}
