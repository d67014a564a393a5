package indexer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/karthikg/litesearch/pkg/errors"
)

// memCorpus is an in-memory Corpus for tests.
type memCorpus struct {
	noise []string
	order []string
	docs  map[string]string
}

func (m *memCorpus) NoiseWords(ctx context.Context) ([]string, error) {
	return m.noise, nil
}

func (m *memCorpus) Documents(ctx context.Context) ([]string, error) {
	return m.order, nil
}

func (m *memCorpus) Open(ctx context.Context, doc string) (io.ReadCloser, error) {
	content, ok := m.docs[doc]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrSourceNotFound, doc)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func TestBuildPopulatesIndex(t *testing.T) {
	corpus := &memCorpus{
		noise: []string{"the", "a"},
		order: []string{"doc1", "doc2", "doc3"},
		docs: map[string]string{
			"doc1": "the fox fox fox hound",
			"doc2": "fox fox the hound hound hound",
			"doc3": "a fox",
		},
	}
	b := New(corpus, nil, nil)
	require.NoError(t, b.Build(context.Background()))

	ix := b.Index()
	assert.Equal(t, 3, ix.DocCount())
	assert.Equal(t, 2, ix.KeywordCount())

	// fox: doc1=3, doc2=2, doc3=1 → descending.
	fox := ix.Lookup("fox")
	require.Len(t, fox, 3)
	assert.Equal(t, "doc1", fox[0].Document)
	assert.Equal(t, "doc2", fox[1].Document)
	assert.Equal(t, "doc3", fox[2].Document)

	// hound: doc2=3, doc1=1.
	hound := ix.Lookup("hound")
	require.Len(t, hound, 2)
	assert.Equal(t, "doc2", hound[0].Document)

	assert.NotNil(t, b.Normalizer())
	assert.True(t, b.Normalizer().IsNoiseWord("the"))
}

func TestBuildFailsFastOnMissingDocument(t *testing.T) {
	corpus := &memCorpus{
		order: []string{"doc1", "missing", "doc3"},
		docs: map[string]string{
			"doc1": "fox",
			"doc3": "hound",
		},
	}
	b := New(corpus, nil, nil)
	err := b.Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSourceNotFound)

	// doc1 was merged before the failure and stays merged; doc3 was
	// never reached.
	assert.Equal(t, 1, b.Index().DocCount())
	assert.Nil(t, b.Index().Lookup("hound"))
}

func TestBuildRespectsCancellation(t *testing.T) {
	corpus := &memCorpus{
		order: []string{"doc1"},
		docs:  map[string]string{"doc1": "fox"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(corpus, nil, nil)
	err := b.Build(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
