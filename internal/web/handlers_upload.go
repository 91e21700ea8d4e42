package web

// handlers_upload.go covers the upload lifecycle: starting an upload,
// streaming progress over SSE, fetching the final result, cancellation,
// and the limiter status the UI uses to grey out the upload button.

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/LeoAbril98/localizar/internal/core"
	"github.com/go-chi/chi/v5"
)

// handleUploadDataset accepts a spreadsheet and starts an asynchronous
// upload that replaces the live dataset when it completes.
func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	data, fileName, ok := s.readUploadFile(w, r)
	if !ok {
		return
	}

	uploadID, err := s.service.StartUpload(r.Context(), fileName, data)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrTooManyUploads) {
			status = http.StatusTooManyRequests
		}
		s.respondError(w, r, err, status)
		return
	}

	writeJSON(w, map[string]string{"uploadId": uploadID})
}

// handleUploadProgress streams upload progress via Server-Sent Events.
// Supports resumption via the lastEventId query parameter: the event ID is
// the progress percentage, so a reconnecting client skips events it has
// already rendered.
func (s *Server) handleUploadProgress(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")
	if uploadID == "" {
		s.respondErrorMsg(w, r, "missing upload ID", http.StatusBadRequest)
		return
	}

	lastEventIDStr := r.URL.Query().Get("lastEventId")
	var lastEventID int
	if lastEventIDStr != "" {
		lastEventID, _ = strconv.Atoi(lastEventIDStr)
	}

	progressCh, err := s.service.SubscribeProgress(uploadID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondErrorMsg(w, r, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				// Channel closed: upload finished or was cancelled
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

			currentPercent := progress.Percent()

			// Skip events the client already received before reconnecting
			if lastEventIDStr != "" && currentPercent <= lastEventID {
				continue
			}

			data, _ := json.Marshal(progress)
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", currentPercent, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// handleCancelUpload cancels an in-progress upload.
func (s *Server) handleCancelUpload(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")
	if uploadID == "" {
		s.respondErrorMsg(w, r, "missing upload ID", http.StatusBadRequest)
		return
	}

	if err := s.service.CancelUpload(uploadID); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]string{"status": "cancelled"})
}

// handleUploadResult returns the final result of an upload, blocking until
// the upload completes.
func (s *Server) handleUploadResult(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")
	if uploadID == "" {
		s.respondErrorMsg(w, r, "missing upload ID", http.StatusBadRequest)
		return
	}

	result, err := s.service.GetUploadResult(uploadID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	writeJSON(w, toResponse(result))
}

// handleUploadQueueStatus returns the current state of the upload limiter.
func (s *Server) handleUploadQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.UploadLimiterStatus())
}
