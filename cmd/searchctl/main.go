// Command searchctl builds an index from a file corpus and runs a single
// two-keyword query, printing the matching documents in rank order.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/karthikg/litesearch/internal/indexer"
	"github.com/karthikg/litesearch/internal/searcher/executor"
	"github.com/karthikg/litesearch/internal/searcher/parser"
	"github.com/karthikg/litesearch/internal/source"
	apperrors "github.com/karthikg/litesearch/pkg/errors"
	"github.com/karthikg/litesearch/pkg/logger"
)

func main() {
	docsFile := flag.String("docs", "corpus/docs.txt", "file listing document paths")
	noiseFile := flag.String("noise", "corpus/noisewords.txt", "noise-words file")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := "error"
	if *verbose {
		level = "debug"
	}
	logger.Setup(level, "text")

	args := flag.Args()
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "usage: searchctl [flags] <keyword1> [keyword2]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	corpus := source.NewFileCorpus(*docsFile, *noiseFile)
	builder := indexer.New(corpus, nil, nil)
	if err := builder.Build(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "index build failed: %v\n", err)
		os.Exit(1)
	}

	query, err := parser.Parse(strings.Join(args, " "), builder.Normalizer())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid query: %v\n", err)
		os.Exit(2)
	}

	exec := executor.New(builder.Index())
	docs, err := exec.TopFive(query.Kw1, query.Kw2)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoMatch) {
			fmt.Println("no matching documents")
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "query failed: %v\n", err)
		os.Exit(1)
	}

	for i, doc := range docs {
		fmt.Printf("%d. %s\n", i+1, doc)
	}
}
