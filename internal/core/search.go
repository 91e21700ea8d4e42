package core

import (
	"fmt"
	"strings"
	"time"
)

// search.go implements the lookup surface. Typed submissions and scanner
// decodes land on the same Submit path, so both sources share matching,
// low-stock flagging and history recording. The service holds exactly one
// QueryState; for a non-empty query it carries either a result or an
// error, never both.

// Submit resolves query against the live dataset and stores the outcome
// as the current query state. An empty query clears the state instead.
func (s *Service) Submit(query string, source Source) QueryState {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		s.query = QueryState{}
		return s.query
	}

	state := QueryState{
		Query:     query,
		Source:    source,
		UpdatedAt: time.Now(),
	}

	if s.index == nil {
		msg := MapError(fmt.Errorf("no dataset loaded"))
		state.Error = &msg
		s.query = state
		return state
	}

	rec, ok := s.index.Find(query)
	if ok {
		state.Result = &LookupResult{
			Record:   rec,
			LowStock: rec.Quantity.Low(),
		}
	} else {
		msg := MapError(fmt.Errorf("no record matches %q", query))
		state.Error = &msg
	}
	s.query = state

	s.history.Add(LookupEntry{
		At:     state.UpdatedAt,
		Query:  query,
		Source: source,
		Hit:    ok,
		Code:   rec.Code,
	})
	return state
}

// Reset clears the current query state, leaving the dataset loaded.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = QueryState{}
}

// Query returns the current query state.
func (s *Service) Query() QueryState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// RecentLookups returns up to limit history entries, newest first.
func (s *Service) RecentLookups(limit int) []LookupEntry {
	return s.history.Recent(limit)
}
