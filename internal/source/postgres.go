package source

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/lib/pq"

	"github.com/karthikg/litesearch/pkg/config"
	"github.com/karthikg/litesearch/pkg/errors"
	"github.com/karthikg/litesearch/pkg/postgres"
)

// PostgresCorpus reads the corpus from PostgreSQL. The docs table carries
// (seq, name, content) rows, ordered by seq for deterministic build order;
// the noise table carries (word) rows.
type PostgresCorpus struct {
	client     *postgres.Client
	docsTable  string
	noiseTable string
}

// NewPostgresCorpus creates a PostgresCorpus over the configured tables.
func NewPostgresCorpus(client *postgres.Client, cfg config.CorpusConfig) *PostgresCorpus {
	return &PostgresCorpus{
		client:     client,
		docsTable:  cfg.DocsTable,
		noiseTable: cfg.NoiseTable,
	}
}

// NoiseWords returns every word in the noise table.
func (p *PostgresCorpus) NoiseWords(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT word FROM %s", pq.QuoteIdentifier(p.noiseTable))
	rows, err := p.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying noise words: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scanning noise word row: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating noise word rows: %w", err)
	}
	return words, nil
}

// Documents returns document names ordered by their seq column.
func (p *PostgresCorpus) Documents(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT name FROM %s ORDER BY seq", pq.QuoteIdentifier(p.docsTable))
	rows, err := p.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying document list: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		docs = append(docs, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}
	return docs, nil
}

// Open returns the stored content of one document as a token stream.
func (p *PostgresCorpus) Open(ctx context.Context, doc string) (io.ReadCloser, error) {
	query := fmt.Sprintf("SELECT content FROM %s WHERE name = $1", pq.QuoteIdentifier(p.docsTable))
	var content string
	err := p.client.DB.QueryRowContext(ctx, query, doc).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: document %s", errors.ErrSourceNotFound, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("querying document %s: %w", doc, err)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}
