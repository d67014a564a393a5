// Package source supplies the external inputs of an index build: the
// noise-word list, the ordered document list, and per-document token
// streams. Implementations exist for flat files and PostgreSQL.
package source

import (
	"context"
	"io"
)

// Corpus is the external collaborator an index build reads from. Documents
// returns identifiers in build order; that order determines tie-break
// ordering within equal-frequency tiers of the index.
type Corpus interface {
	// NoiseWords returns the noise-word list, read once before indexing.
	NoiseWords(ctx context.Context) ([]string, error)

	// Documents returns the ordered list of document identifiers to index.
	Documents(ctx context.Context) ([]string, error)

	// Open returns the raw token stream for one document.
	Open(ctx context.Context, doc string) (io.ReadCloser, error)
}
