package web

import (
	"net/http"
	"strings"
	"testing"
)

func TestTemplateDownloadCSV(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodGet, "/api/dataset/template", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("template returned %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "modelo_estoque.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "Código") {
		t.Error("template body missing canonical headers")
	}
}

func TestTemplateDownloadXLSX(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodGet, "/api/dataset/template?format=xlsx", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("template returned %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	// xlsx is a zip container
	if body := rec.Body.Bytes(); len(body) < 2 || body[0] != 'P' || body[1] != 'K' {
		t.Error("xlsx body is not a zip archive")
	}
}

func TestTemplateUnknownFormat(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodGet, "/api/dataset/template?format=pdf", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("template returned %d, want 400", rec.Code)
	}
}

func TestTemplateRoundTripsThroughUpload(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodGet, "/api/dataset/template", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("template returned %d", rec.Code)
	}

	result := uploadSheet(t, s, "modelo_estoque.csv", rec.Body.String())
	if result.Error != "" {
		t.Fatalf("template upload failed: %s", result.Error)
	}
	if result.Loaded == 0 {
		t.Error("template sample rows did not load")
	}
}
