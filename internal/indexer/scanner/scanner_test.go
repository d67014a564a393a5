package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikg/litesearch/internal/indexer/keyword"
)

func TestScanCountsNormalizedForms(t *testing.T) {
	norm := keyword.NewNormalizer([]string{"the", "a"})
	text := "The fox jumps; the Fox, fox. a don't hound"

	table, stats, err := Scan("doc1", strings.NewReader(text), norm)
	require.NoError(t, err)

	// "The"/"the"/"a" are noise, "don't" is malformed, "jumps;" loses
	// its trailing punctuation.
	require.Len(t, table, 3)
	assert.Equal(t, 3, table["fox"].Frequency)
	assert.Equal(t, 1, table["jumps"].Frequency)
	assert.Equal(t, 1, table["hound"].Frequency)
	assert.Equal(t, "doc1", table["fox"].Document)

	assert.Equal(t, 9, stats.Tokens)
	assert.Equal(t, 4, stats.Rejected)
}

func TestScanEmptyDocument(t *testing.T) {
	norm := keyword.NewNormalizer(nil)
	table, stats, err := Scan("doc1", strings.NewReader(""), norm)
	require.NoError(t, err)
	assert.Empty(t, table)
	assert.Equal(t, 0, stats.Tokens)
}

func TestScanAllTokensRejected(t *testing.T) {
	norm := keyword.NewNormalizer([]string{"the"})
	table, stats, err := Scan("doc1", strings.NewReader("the THE 123 ?!"), norm)
	require.NoError(t, err)
	assert.Empty(t, table)
	assert.Equal(t, 4, stats.Tokens)
	assert.Equal(t, 4, stats.Rejected)
}
