package core

// Index resolves normalized product codes to records. Lookup is exact match
// after NormalizeKey on both sides; when a sheet repeats a code, the first
// loaded row wins and later rows are shadowed.
type Index struct {
	byKey map[string]int
	recs  []Record
}

// BuildIndex indexes records by normalized code. Records without a code are
// not indexed; they remain part of the dataset but cannot be looked up.
// The second return value counts rows shadowed by an earlier duplicate.
func BuildIndex(records []Record) (*Index, int) {
	ix := &Index{
		byKey: make(map[string]int, len(records)),
		recs:  records,
	}
	duplicates := 0
	for i, r := range records {
		key := NormalizeKey(r.Code)
		if key == "" {
			continue
		}
		if _, exists := ix.byKey[key]; exists {
			duplicates++
			continue
		}
		ix.byKey[key] = i
	}
	return ix, duplicates
}

// Find resolves a query to a record. The query is normalized the same way
// codes were at index time, so case, whitespace, and accents do not matter.
func (ix *Index) Find(query string) (Record, bool) {
	if ix == nil {
		return Record{}, false
	}
	key := NormalizeKey(query)
	if key == "" {
		return Record{}, false
	}
	i, ok := ix.byKey[key]
	if !ok {
		return Record{}, false
	}
	return ix.recs[i], true
}

// Len returns the number of distinct lookup keys.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.byKey)
}
