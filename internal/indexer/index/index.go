// Package index holds the global keyword index: a map from keyword to its
// occurrence list across all documents, ordered by descending frequency.
package index

import (
	"sync"
)

// Index is the global keyword index. It is built fully before queries are
// served; the RWMutex guards readers that arrive while a build is still in
// flight.
type Index struct {
	mu      sync.RWMutex
	entries map[string][]Occurrence
	docs    int
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		entries: make(map[string][]Occurrence),
	}
}

// Merge folds one document's keyword table into the index. A new keyword
// starts a single-element list; an existing keyword gets the occurrence
// appended and repositioned by InsertLast, so every list is fully sorted
// descending by frequency after each merge.
func (ix *Index) Merge(table map[string]*Occurrence) {
	if len(table) == 0 {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for kw, occ := range table {
		occs, exists := ix.entries[kw]
		if !exists {
			ix.entries[kw] = []Occurrence{*occ}
			continue
		}
		occs = append(occs, *occ)
		occs, _ = InsertLast(occs)
		ix.entries[kw] = occs
	}
	ix.docs++
}

// Lookup returns a copy of the occurrence list for the given keyword. An
// unindexed keyword yields a nil slice, not an error.
func (ix *Index) Lookup(kw string) []Occurrence {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	occs, exists := ix.entries[kw]
	if !exists {
		return nil
	}
	out := make([]Occurrence, len(occs))
	copy(out, occs)
	return out
}

// KeywordCount returns the number of distinct keywords in the index.
func (ix *Index) KeywordCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// DocCount returns the number of documents merged into the index.
func (ix *Index) DocCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.docs
}
