// Package integration exercises the full service path: a corpus built from
// real files on disk, served over the production router via httptest. No
// external dependencies (PostgreSQL, Redis, Kafka) are required.
//
// Run with:
//
//	go test -v ./test/integration/...
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikg/litesearch/internal/indexer"
	"github.com/karthikg/litesearch/internal/searcher/executor"
	"github.com/karthikg/litesearch/internal/searcher/handler"
	"github.com/karthikg/litesearch/internal/source"
	"github.com/karthikg/litesearch/pkg/health"
)

type searchResponse struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Count     int      `json:"count"`
}

type statsResponse struct {
	Documents  int `json:"documents"`
	Keywords   int `json:"keywords"`
	NoiseWords int `json:"noise_words"`
}

// writeCorpus lays out a small corpus on disk and returns the docs-list and
// noise-words file paths plus the per-document content paths.
func writeCorpus(t *testing.T) (docsFile, noiseFile string, docPaths map[string]string) {
	t.Helper()
	dir := t.TempDir()

	contents := map[string]string{
		"whales.txt":  "Whales surface often. Whales breathe air, and whales sing. The ocean holds whales and krill.",
		"ocean.txt":   "The ocean is deep. Ocean currents move krill across the ocean floor, past coral.",
		"krill.txt":   "Krill swarm in cold water. Krill feed whales; krill feed seabirds too. Krill drift with currents. Krill glow.",
		"coral.txt":   "Coral grows slowly. Coral reefs shelter fish.",
		"currents.txt": "Currents carry heat. Deep currents mix the water column.",
	}

	docPaths = make(map[string]string, len(contents))
	var listed []string
	// Fixed order so merge order, and therefore tie-breaks, are stable.
	for _, name := range []string{"whales.txt", "ocean.txt", "krill.txt", "coral.txt", "currents.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(contents[name]), 0644))
		docPaths[name] = path
		listed = append(listed, path)
	}

	docsFile = filepath.Join(dir, "docs.txt")
	var list string
	for _, p := range listed {
		list += p + "\n"
	}
	require.NoError(t, os.WriteFile(docsFile, []byte(list), 0644))

	noiseFile = filepath.Join(dir, "noisewords.txt")
	require.NoError(t, os.WriteFile(noiseFile, []byte("the a an and with in is too past across often"), 0644))
	return docsFile, noiseFile, docPaths
}

func startService(t *testing.T) (*httptest.Server, map[string]string) {
	t.Helper()
	docsFile, noiseFile, docPaths := writeCorpus(t)

	corpus := source.NewFileCorpus(docsFile, noiseFile)
	builder := indexer.New(corpus, nil, nil)
	require.NoError(t, builder.Build(context.Background()))

	exec := executor.New(builder.Index())
	h := handler.New(builder.Index(), exec, builder.Normalizer(), nil, nil, nil)

	checker := health.NewChecker()
	checker.Register("index", true, health.StaticCheck("index built"))

	srv := httptest.NewServer(handler.NewRouter(h, checker, nil, 5*time.Second))
	t.Cleanup(srv.Close)
	return srv, docPaths
}

func getSearch(t *testing.T, srv *httptest.Server, query string) (int, searchResponse) {
	t.Helper()
	resp, err := http.Get(srv.URL + "/api/v1/search?q=" + url.QueryEscape(query))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body searchResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestSearchEndToEnd(t *testing.T) {
	srv, docs := startService(t)

	status, body := getSearch(t, srv, "whales OR krill")
	require.Equal(t, http.StatusOK, status)

	// Frequencies: whales → whales.txt:4, krill.txt:1, ocean aside;
	// krill → krill.txt:5, ocean.txt:1, whales.txt:1.
	require.NotEmpty(t, body.Documents)
	assert.Equal(t, docs["krill.txt"], body.Documents[0], "krill.txt carries the highest frequency")
	assert.Contains(t, body.Documents, docs["whales.txt"])
	assert.Equal(t, len(body.Documents), body.Count)
	assert.LessOrEqual(t, body.Count, 5)

	// Each document appears at most once even though whales.txt and
	// krill.txt match both keywords.
	seen := map[string]bool{}
	for _, d := range body.Documents {
		assert.False(t, seen[d], "duplicate document %s", d)
		seen[d] = true
	}
}

func TestSearchSingleKeyword(t *testing.T) {
	srv, docs := startService(t)

	status, body := getSearch(t, srv, "coral")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Documents, 2)
	assert.Equal(t, docs["coral.txt"], body.Documents[0])
	assert.Equal(t, docs["ocean.txt"], body.Documents[1])
}

func TestSearchNormalizesPunctuationAndCase(t *testing.T) {
	srv, _ := startService(t)

	plain, plainBody := getSearch(t, srv, "whales OR currents")
	messy, messyBody := getSearch(t, srv, "Whales. OR CURRENTS!")
	require.Equal(t, http.StatusOK, plain)
	require.Equal(t, messy, plain)
	assert.Equal(t, plainBody.Documents, messyBody.Documents)
}

func TestSearchNoMatch(t *testing.T) {
	srv, _ := startService(t)

	status, _ := getSearch(t, srv, "volcano OR tundra")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSearchNoiseWordOnly(t *testing.T) {
	srv, _ := startService(t)

	// "the" is a noise word; it never enters the index.
	status, _ := getSearch(t, srv, "the")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestKeywordEndpoint(t *testing.T) {
	srv, docs := startService(t)

	resp, err := http.Get(srv.URL + "/api/v1/keywords/krill")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Keyword     string `json:"keyword"`
		Occurrences []struct {
			Document  string `json:"document"`
			Frequency int    `json:"frequency"`
		} `json:"occurrences"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "krill", body.Keyword)
	require.NotEmpty(t, body.Occurrences)
	assert.Equal(t, docs["krill.txt"], body.Occurrences[0].Document)
	assert.Equal(t, 5, body.Occurrences[0].Frequency)
	for i := 1; i < len(body.Occurrences); i++ {
		assert.GreaterOrEqual(t,
			body.Occurrences[i-1].Frequency, body.Occurrences[i].Frequency,
			"occurrence list must be frequency-descending")
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, _ := startService(t)

	resp, err := http.Get(srv.URL + "/api/v1/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body statsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 5, body.Documents)
	assert.Greater(t, body.Keywords, 0)
	assert.Equal(t, 11, body.NoiseWords)
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := startService(t)

	for _, path := range []string{"/health", "/health/live"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestBuildFailsOnMissingDocument(t *testing.T) {
	dir := t.TempDir()
	docsFile := filepath.Join(dir, "docs.txt")
	missing := filepath.Join(dir, "ghost.txt")
	require.NoError(t, os.WriteFile(docsFile, []byte(missing+"\n"), 0644))
	noiseFile := filepath.Join(dir, "noisewords.txt")
	require.NoError(t, os.WriteFile(noiseFile, []byte("the"), 0644))

	builder := indexer.New(source.NewFileCorpus(docsFile, noiseFile), nil, nil)
	err := builder.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("document %s", missing))
}
