package core

import (
	"sync"
	"time"
)

// history.go keeps a bounded trail of recent lookups. The trail survives
// dataset replacement so operators can see what was searched across
// uploads; it is dropped only when the dataset is explicitly cleared.

// DefaultHistorySize bounds the lookup trail when no size is configured.
const DefaultHistorySize = 50

// LookupEntry is one recorded lookup, hit or miss.
type LookupEntry struct {
	At     time.Time `json:"at"`
	Query  string    `json:"query"`
	Source Source    `json:"source"`
	Hit    bool      `json:"hit"`
	Code   string    `json:"code,omitempty"`
}

// History is a fixed-size ring of lookup entries. Safe for concurrent use.
type History struct {
	mu      sync.Mutex
	entries []LookupEntry
	next    int
	filled  bool
}

// NewHistory returns a ring holding at most size entries.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{entries: make([]LookupEntry, size)}
}

// Add records one lookup, evicting the oldest entry once full.
func (h *History) Add(entry LookupEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.next] = entry
	h.next++
	if h.next == len(h.entries) {
		h.next = 0
		h.filled = true
	}
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (h *History) Recent(limit int) []LookupEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := h.next
	if h.filled {
		count = len(h.entries)
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	out := make([]LookupEntry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := h.next - i
		if idx < 0 {
			idx += len(h.entries)
		}
		out = append(out, h.entries[idx])
	}
	return out
}

// Len reports how many entries are currently held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.filled {
		return len(h.entries)
	}
	return h.next
}

// Clear drops all entries, keeping the configured capacity.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entries {
		h.entries[i] = LookupEntry{}
	}
	h.next = 0
	h.filled = false
}
