package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/karthikg/litesearch/pkg/errors"
)

// FileCorpus reads the corpus from flat files: a docs file listing document
// paths and a noise-words file, both whitespace-separated. Document content
// is read from the listed paths.
type FileCorpus struct {
	docsFile  string
	noiseFile string
}

// NewFileCorpus creates a FileCorpus over the given docs-list and
// noise-words files.
func NewFileCorpus(docsFile, noiseFile string) *FileCorpus {
	return &FileCorpus{
		docsFile:  docsFile,
		noiseFile: noiseFile,
	}
}

// NoiseWords reads the noise-words file as whitespace-separated tokens.
func (f *FileCorpus) NoiseWords(ctx context.Context) ([]string, error) {
	return readTokens(f.noiseFile)
}

// Documents reads the docs file; each token names one document, in build
// order.
func (f *FileCorpus) Documents(ctx context.Context) ([]string, error) {
	return readTokens(f.docsFile)
}

// Open opens a document's content file.
func (f *FileCorpus) Open(ctx context.Context, doc string) (io.ReadCloser, error) {
	file, err := os.Open(doc)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: document %s", errors.ErrSourceNotFound, doc)
		}
		return nil, fmt.Errorf("opening document %s: %w", doc, err)
	}
	return file, nil
}

func readTokens(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	var tokens []string
	sc := bufio.NewScanner(file)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		tokens = append(tokens, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return tokens, nil
}
