// Package executor implements the bounded two-keyword OR query over the
// global index.
package executor

import (
	"log/slog"

	"github.com/karthikg/litesearch/internal/indexer/index"
	"github.com/karthikg/litesearch/pkg/errors"
)

// MaxResults bounds the number of distinct documents a query returns.
const MaxResults = 5

// Executor answers top-5 queries against a built index.
type Executor struct {
	index  *index.Index
	logger *slog.Logger
}

// New creates an Executor over the given index.
func New(ix *index.Index) *Executor {
	return &Executor{
		index:  ix,
		logger: slog.Default().With("component", "query-executor"),
	}
}

// TopFive merges the two keywords' occurrence lists into at most MaxResults
// distinct document identifiers, ordered by descending frequency. An
// unindexed keyword contributes an empty list; when both are empty the
// result is ErrNoMatch.
//
// The merge walks a cursor over each list. The head with the strictly
// higher frequency is output and its cursor advanced; on a frequency tie
// the kw1 side wins and only the kw1 cursor advances, so the kw2 candidate
// is re-examined against the next kw1 head. A document indexed under both
// keywords is output once, where it first wins. When one list is exhausted
// the other is drained, still skipping already-output documents.
func (e *Executor) TopFive(kw1, kw2 string) ([]string, error) {
	first := e.index.Lookup(kw1)
	second := e.index.Lookup(kw2)
	if len(first) == 0 && len(second) == 0 {
		return nil, errors.ErrNoMatch
	}

	out := make([]string, 0, MaxResults)
	i, j := 0, 0
	for len(out) < MaxResults && (i < len(first) || j < len(second)) {
		switch {
		case i >= len(first):
			out = appendDistinct(out, second[j].Document)
			j++
		case j >= len(second):
			out = appendDistinct(out, first[i].Document)
			i++
		case first[i].Frequency >= second[j].Frequency:
			out = appendDistinct(out, first[i].Document)
			i++
		default:
			out = appendDistinct(out, second[j].Document)
			j++
		}
	}
	return out, nil
}

// appendDistinct appends doc unless it is already present. The result list
// never exceeds MaxResults entries, so the linear scan is bounded.
func appendDistinct(out []string, doc string) []string {
	for _, d := range out {
		if d == doc {
			return out
		}
	}
	return append(out, doc)
}
