// Package indexer orchestrates index builds: it loads the noise-word set,
// scans every document the corpus lists, and merges each per-document
// keyword table into the global index.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/karthikg/litesearch/internal/analytics"
	"github.com/karthikg/litesearch/internal/analytics/collector"
	"github.com/karthikg/litesearch/internal/indexer/index"
	"github.com/karthikg/litesearch/internal/indexer/keyword"
	"github.com/karthikg/litesearch/internal/indexer/scanner"
	"github.com/karthikg/litesearch/internal/source"
	"github.com/karthikg/litesearch/pkg/metrics"
)

// Builder runs index builds over a corpus. Metrics and the analytics
// collector are optional; a nil value disables them.
type Builder struct {
	index     *index.Index
	corpus    source.Corpus
	metrics   *metrics.Metrics
	collector *collector.BatchCollector
	norm      *keyword.Normalizer
	logger    *slog.Logger
}

// New creates a Builder with an empty index.
func New(corpus source.Corpus, m *metrics.Metrics, coll *collector.BatchCollector) *Builder {
	return &Builder{
		index:     index.New(),
		corpus:    corpus,
		metrics:   m,
		collector: coll,
		logger:    slog.Default().With("component", "index-builder"),
	}
}

// Index returns the global index. It is empty until Build has run.
func (b *Builder) Index() *index.Index {
	return b.index
}

// Normalizer returns the keyword normalizer loaded by Build, for reuse at
// query-parse time. Nil before Build has run.
func (b *Builder) Normalizer() *keyword.Normalizer {
	return b.norm
}

// Build populates the index from the corpus: noise words first, then every
// document in corpus order. A missing source aborts the build immediately;
// documents merged before the failure stay merged.
func (b *Builder) Build(ctx context.Context) error {
	start := time.Now()

	noiseWords, err := b.corpus.NoiseWords(ctx)
	if err != nil {
		return fmt.Errorf("loading noise words: %w", err)
	}
	b.norm = keyword.NewNormalizer(noiseWords)
	b.logger.Info("noise words loaded", "count", b.norm.NoiseWordCount())

	docs, err := b.corpus.Documents(ctx)
	if err != nil {
		return fmt.Errorf("loading document list: %w", err)
	}
	b.logger.Info("starting index build", "documents", len(docs))

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("build cancelled: %w", err)
		}
		if err := b.indexDocument(ctx, doc); err != nil {
			return err
		}
	}

	elapsed := time.Since(start)
	if b.metrics != nil {
		b.metrics.BuildDuration.Observe(elapsed.Seconds())
		b.metrics.KeywordsIndexed.Set(float64(b.index.KeywordCount()))
	}
	b.logger.Info("index build complete",
		"documents", b.index.DocCount(),
		"keywords", b.index.KeywordCount(),
		"elapsed", elapsed,
	)
	return nil
}

func (b *Builder) indexDocument(ctx context.Context, doc string) error {
	start := time.Now()

	rc, err := b.corpus.Open(ctx, doc)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	table, stats, err := scanner.Scan(doc, rc, b.norm)
	rc.Close()
	if err != nil {
		return err
	}

	b.index.Merge(table)

	if b.metrics != nil {
		b.metrics.DocsIndexedTotal.Inc()
		b.metrics.TokensScannedTotal.Add(float64(stats.Tokens))
		b.metrics.TokensRejectedTotal.Add(float64(stats.Rejected))
	}
	if b.collector != nil {
		b.collector.Track(doc, analytics.IndexEvent{
			Type:      analytics.EventIndexDoc,
			Document:  doc,
			Keywords:  len(table),
			Tokens:    stats.Tokens,
			Rejected:  stats.Rejected,
			LatencyMs: time.Since(start).Milliseconds(),
			Timestamp: time.Now().UTC(),
		})
	}
	b.logger.Debug("document indexed",
		"document", doc,
		"keywords", len(table),
		"tokens", stats.Tokens,
		"rejected", stats.Rejected,
	)
	return nil
}
