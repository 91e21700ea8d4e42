package web

// handlers_scan.go exposes the camera scanner. Start and stop manage the
// single live session; events streams every state change, decode and error
// over SSE so the page mirrors the scanner without polling.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LeoAbril98/localizar/internal/core"
)

// handleScanStart begins a scan session, restarting any session already
// running.
func (s *Server) handleScanStart(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.StartScan(r.Context())
	if err != nil {
		s.respondError(w, r, err, scanErrorStatus(err))
		return
	}
	writeJSON(w, info)
}

// scanErrorStatus maps scan start failures: camera errors to 503, a lost
// race on the single session slot to 409.
func scanErrorStatus(err error) int {
	code := core.MapError(err).Code
	switch {
	case code == "SCN001":
		return http.StatusConflict
	case strings.HasPrefix(code, "CAM"):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// handleScanStop ends the live scan session, if any, and reports the
// resulting status. Stopping an idle scanner is a no-op.
func (s *Server) handleScanStop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.StopScan())
}

// handleScanStatus reports scanning state and camera availability.
func (s *Server) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.ScanStatus())
}

// handleScanEvents streams scan events via Server-Sent Events. The stream
// spans sessions: clients connect once and follow every scan until they
// disconnect.
func (s *Server) handleScanEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondErrorMsg(w, r, "streaming not supported", http.StatusInternalServerError)
		return
	}

	events := s.service.SubscribeScanEvents()
	defer s.service.UnsubscribeScanEvents(events)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// Opening snapshot so a reconnecting client resyncs its scanner badge
	if data, err := json.Marshal(s.service.ScanStatus()); err == nil {
		fmt.Fprintf(w, "event: status\ndata: %s\n\n", data)
		flusher.Flush()
	}

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
			flusher.Flush()

		case <-heartbeat.C:
			// Comment line keeps idle proxies from closing the stream
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
