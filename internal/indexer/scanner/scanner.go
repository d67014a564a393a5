// Package scanner turns one document's token stream into a per-document
// table of keyword occurrence counts.
package scanner

import (
	"bufio"
	"fmt"
	"io"

	"github.com/karthikg/litesearch/internal/indexer/index"
	"github.com/karthikg/litesearch/internal/indexer/keyword"
)

// Stats summarises one document scan.
type Stats struct {
	Tokens   int
	Rejected int
}

// Scan reads whitespace-separated tokens from r and returns the document's
// keyword table. Tokens rejected by the normalizer are skipped silently;
// each accepted keyword maps to exactly one Occurrence whose frequency is
// the number of times the keyword's normalized form appeared.
func Scan(doc string, r io.Reader, norm *keyword.Normalizer) (map[string]*index.Occurrence, Stats, error) {
	table := make(map[string]*index.Occurrence)
	var stats Stats

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		stats.Tokens++
		kw, ok := norm.Normalize(sc.Text())
		if !ok {
			stats.Rejected++
			continue
		}
		if occ, exists := table[kw]; exists {
			occ.Frequency++
			continue
		}
		table[kw] = &index.Occurrence{Document: doc, Frequency: 1}
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("scanning document %s: %w", doc, err)
	}
	return table, stats, nil
}
