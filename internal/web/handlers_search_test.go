package web

import (
	"net/http"
	"testing"

	"github.com/LeoAbril98/localizar/internal/core"
)

func searchState(t *testing.T, s *Server, target string) core.QueryState {
	t.Helper()
	rec := do(t, s, http.MethodGet, target, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("%s returned %d: %s", target, rec.Code, rec.Body.String())
	}
	var state core.QueryState
	decodeJSON(t, rec, &state)
	return state
}

func TestSearchHit(t *testing.T) {
	s := newTestServer(t, nil, nil)
	uploadSheet(t, s, "estoque.csv", testSheet)

	state := searchState(t, s, "/api/search?q=ab-1")
	if state.Result == nil {
		t.Fatalf("no result for ab-1: %+v", state)
	}
	if state.Error != nil {
		t.Error("state carries both result and error")
	}
	if state.Result.Record.Code != "AB-1" {
		t.Errorf("code = %q, want AB-1", state.Result.Record.Code)
	}
	if state.Result.Record.Model != "Parafuso M4" {
		t.Errorf("model = %q, want Parafuso M4", state.Result.Record.Model)
	}
	if state.Result.LowStock {
		t.Error("AB-1 flagged low stock with quantity 12")
	}
	if state.Source != core.SourceTyped {
		t.Errorf("source = %q, want typed", state.Source)
	}
}

func TestSearchLowStockFlag(t *testing.T) {
	s := newTestServer(t, nil, nil)
	uploadSheet(t, s, "estoque.csv", testSheet)

	state := searchState(t, s, "/api/search?q=CD-2")
	if state.Result == nil {
		t.Fatal("no result for CD-2")
	}
	if !state.Result.LowStock {
		t.Error("CD-2 not flagged low stock with quantity 0")
	}
}

func TestSearchMiss(t *testing.T) {
	s := newTestServer(t, nil, nil)
	uploadSheet(t, s, "estoque.csv", testSheet)

	state := searchState(t, s, "/api/search?q=ZZ-99")
	if state.Result != nil {
		t.Fatal("unexpected result for unknown code")
	}
	if state.Error == nil {
		t.Fatal("miss produced no error message")
	}
	if state.Error.Code != "LKP001" {
		t.Errorf("error code = %q, want LKP001", state.Error.Code)
	}
}

func TestSearchWithoutDataset(t *testing.T) {
	s := newTestServer(t, nil, nil)

	state := searchState(t, s, "/api/search?q=AB-1")
	if state.Error == nil {
		t.Fatal("search without dataset produced no error")
	}
	if state.Error.Code != "LKP002" {
		t.Errorf("error code = %q, want LKP002", state.Error.Code)
	}
}

func TestSearchEmptyQueryClears(t *testing.T) {
	s := newTestServer(t, nil, nil)
	uploadSheet(t, s, "estoque.csv", testSheet)

	searchState(t, s, "/api/search?q=AB-1")
	state := searchState(t, s, "/api/search?q=")
	if !state.Empty() {
		t.Errorf("empty submit left state %+v", state)
	}
}

func TestSearchWithoutParamIsReadOnly(t *testing.T) {
	s := newTestServer(t, nil, nil)
	uploadSheet(t, s, "estoque.csv", testSheet)

	searchState(t, s, "/api/search?q=AB-1")

	// Reading the state twice must not submit anything new
	for i := 0; i < 2; i++ {
		state := searchState(t, s, "/api/search")
		if state.Result == nil || state.Result.Record.Code != "AB-1" {
			t.Fatalf("read %d lost the displayed result", i+1)
		}
	}

	rec := do(t, s, http.MethodGet, "/api/history", nil, "")
	var entries []core.LookupEntry
	decodeJSON(t, rec, &entries)
	if len(entries) != 1 {
		t.Errorf("history has %d entries, want 1 (reads must not record)", len(entries))
	}
}

func TestSearchReset(t *testing.T) {
	s := newTestServer(t, nil, nil)
	uploadSheet(t, s, "estoque.csv", testSheet)

	searchState(t, s, "/api/search?q=AB-1")

	rec := do(t, s, http.MethodPost, "/api/search/reset", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset returned %d", rec.Code)
	}

	state := searchState(t, s, "/api/search")
	if !state.Empty() {
		t.Error("state not empty after reset")
	}

	// Dataset is untouched
	rec = do(t, s, http.MethodGet, "/api/dataset", nil, "")
	var summary core.DatasetSummary
	decodeJSON(t, rec, &summary)
	if !summary.Loaded {
		t.Error("reset cleared the dataset")
	}
}

func TestHistoryOrderAndLimit(t *testing.T) {
	s := newTestServer(t, nil, nil)
	uploadSheet(t, s, "estoque.csv", testSheet)

	for _, q := range []string{"AB-1", "ZZ-1", "CD-2"} {
		searchState(t, s, "/api/search?q="+q)
	}

	rec := do(t, s, http.MethodGet, "/api/history?limit=2", nil, "")
	var entries []core.LookupEntry
	decodeJSON(t, rec, &entries)

	if len(entries) != 2 {
		t.Fatalf("history returned %d entries, want 2", len(entries))
	}
	if entries[0].Query != "CD-2" {
		t.Errorf("newest entry = %q, want CD-2", entries[0].Query)
	}
	if entries[1].Query != "ZZ-1" {
		t.Errorf("second entry = %q, want ZZ-1", entries[1].Query)
	}
	if entries[1].Hit {
		t.Error("ZZ-1 recorded as hit")
	}
}

func TestHistoryEmptyIsArray(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodGet, "/api/history", nil, "")
	if body := rec.Body.String(); body == "null\n" || body == "null" {
		t.Error("empty history encodes as null, want []")
	}
}
