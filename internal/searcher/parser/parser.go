// Package parser turns a raw query string into the keyword pair the merge
// engine operates on.
package parser

import (
	"fmt"
	"strings"

	"github.com/karthikg/litesearch/internal/indexer/keyword"
	"github.com/karthikg/litesearch/pkg/errors"
)

// Query is a parsed two-keyword OR query. Kw2 is empty for single-keyword
// queries; the engine treats it as an absent keyword.
type Query struct {
	Kw1 string
	Kw2 string
	Raw string
}

// Parse splits a raw query into at most two keywords. An "OR" connective
// between words is tolerated and ignored. Each word is canonicalised by the
// normalizer; words the normalizer rejects are kept lowercased, since an
// unindexable word simply matches nothing. Zero words or more than two is
// invalid input.
func Parse(raw string, norm *keyword.Normalizer) (*Query, error) {
	var words []string
	for _, w := range strings.Fields(raw) {
		if strings.EqualFold(w, "or") {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: empty query", errors.ErrInvalidInput)
	}
	if len(words) > 2 {
		return nil, fmt.Errorf("%w: at most two keywords per query, got %d", errors.ErrInvalidInput, len(words))
	}

	q := &Query{Raw: raw}
	q.Kw1 = canonical(words[0], norm)
	if len(words) == 2 {
		q.Kw2 = canonical(words[1], norm)
	}
	return q, nil
}

func canonical(word string, norm *keyword.Normalizer) string {
	if kw, ok := norm.Normalize(word); ok {
		return kw
	}
	return strings.ToLower(word)
}
