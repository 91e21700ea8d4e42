package web

// handlers_common.go holds helpers shared across handlers.

import (
	"io"
	"net/http"
	"strconv"

	"github.com/LeoAbril98/localizar/internal/core"
)

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// readUploadFile extracts the uploaded sheet from a multipart request,
// enforcing the configured size limit. On failure the error response has
// already been written and ok is false.
func (s *Server) readUploadFile(w http.ResponseWriter, r *http.Request) (data []byte, fileName string, ok bool) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondErrorMsg(w, r, "file too large or invalid form", http.StatusBadRequest)
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondErrorMsg(w, r, "no file provided", http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		s.respondErrorMsg(w, r, "failed to read file", http.StatusInternalServerError)
		return nil, "", false
	}

	return data, header.Filename, true
}

// UploadResultResponse wraps the upload result for JSON encoding.
type UploadResultResponse struct {
	UploadID   string           `json:"uploadId"`
	FileName   string           `json:"fileName"`
	Format     core.SheetFormat `json:"format,omitempty"`
	TotalRows  int              `json:"totalRows"`
	Loaded     int              `json:"loaded"`
	Skipped    int              `json:"skipped"`
	Superseded bool             `json:"superseded,omitempty"`
	Duration   string           `json:"duration"`
	Error      string           `json:"error,omitempty"`
}

// toResponse converts an UploadResult to a JSON-friendly format.
func toResponse(result *core.UploadResult) UploadResultResponse {
	return UploadResultResponse{
		UploadID:   result.UploadID,
		FileName:   result.FileName,
		Format:     result.Format,
		TotalRows:  result.TotalRows,
		Loaded:     result.Loaded,
		Skipped:    result.Skipped,
		Superseded: result.Superseded,
		Duration:   result.Duration.String(),
		Error:      result.Error,
	}
}
