package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fixture struct {
	dir        string
	configPath string
	regexPath  string
}

func (f fixture) out(name string) string { return filepath.Join(f.dir, name) }

// newFixture writes a regex file and a config pointing at baseURL into a temp dir
func newFixture(t *testing.T, baseURL string, extra string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:        dir,
		configPath: filepath.Join(dir, "config.yaml"),
		regexPath:  filepath.Join(dir, "regex_patterns.txt"),
	}
	require.NoError(t, os.WriteFile(f.regexPath, []byte("# detectors\nTODO:.*\n\n([broken\napi_key=\\w+\n"), 0644))

	cfg := fmt.Sprintf(`base_url: %q
crawl_depth: 1
advanced: true
regex_file: %q
output_file: %q
sorted_output_file: %q
nourl_output_file: %q
%s`, baseURL, f.regexPath, f.out("results.yaml"), f.out("results-sorted.yaml"), f.out("resultsnourl.yaml"), extra)
	require.NoError(t, os.WriteFile(f.configPath, []byte(cfg), 0644))
	return f
}

func testSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `<html><!-- TODO: fix auth --><a href="/about">About</a><a href="http://other.invalid/">x</a></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "api_key=abc123")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRun_WritesReports(t *testing.T) {
	server := testSite(t)
	f := newFixture(t, server.URL, "")

	var logs bytes.Buffer
	code := run(context.Background(), []string{"-config", f.configPath, "-workers", "2"}, &logs)
	require.Equal(t, 0, code, logs.String())

	data, err := os.ReadFile(f.out("results.yaml"))
	require.NoError(t, err)
	var detailed struct {
		AllCrawledURLs  []string                  `yaml:"all_crawled_urls"`
		DetailedResults map[string]map[string]any `yaml:"detailed_results"`
	}
	require.NoError(t, yaml.Unmarshal(data, &detailed))
	assert.Equal(t, []string{server.URL, server.URL + "/about"}, detailed.AllCrawledURLs)

	data, err = os.ReadFile(f.out("resultsnourl.yaml"))
	require.NoError(t, err)
	var nourl struct {
		Patterns []struct {
			Pattern string   `yaml:"pattern"`
			Total   int      `yaml:"total_unique_matches"`
			Matches []string `yaml:"matches"`
		} `yaml:"patterns"`
	}
	require.NoError(t, yaml.Unmarshal(data, &nourl))
	require.Len(t, nourl.Patterns, 2)
	assert.Equal(t, "TODO:.*", nourl.Patterns[0].Pattern)
	assert.Contains(t, nourl.Patterns[0].Matches, "TODO: fix auth")
	assert.Equal(t, `api_key=\w+`, nourl.Patterns[1].Pattern)
	assert.Equal(t, []string{"api_key=abc123"}, nourl.Patterns[1].Matches)

	_, err = os.Stat(f.out("results-sorted.yaml"))
	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "Skipping pattern")
}

func TestRun_MissingConfig(t *testing.T) {
	code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}, io.Discard)
	assert.Equal(t, 1, code)
}

func TestRun_MissingPatternFile(t *testing.T) {
	f := newFixture(t, "http://example.com", "")
	require.NoError(t, os.Remove(f.regexPath))

	code := run(context.Background(), []string{"-config", f.configPath}, io.Discard)
	assert.Equal(t, 1, code)
	_, err := os.Stat(f.out("results.yaml"))
	assert.True(t, os.IsNotExist(err), "no report may be written on a fatal startup error")
}

func TestRun_InvalidSeed(t *testing.T) {
	f := newFixture(t, "example.com/no-scheme", "")
	code := run(context.Background(), []string{"-config", f.configPath}, io.Discard)
	assert.Equal(t, 1, code)
}

func TestRun_ReportWriteFailure(t *testing.T) {
	server := testSite(t)
	f := newFixture(t, server.URL, "")
	require.NoError(t, os.Mkdir(f.out("results-sorted.yaml"), 0755))

	code := run(context.Background(), []string{"-config", f.configPath}, io.Discard)
	assert.Equal(t, 1, code)
}

func TestRun_CancelledStillWritesReports(t *testing.T) {
	server := testSite(t)
	f := newFixture(t, server.URL, "visited_store: badger\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code := run(ctx, []string{"-config", f.configPath}, io.Discard)
	assert.Equal(t, 0, code)
	_, err := os.Stat(f.out("results.yaml"))
	assert.NoError(t, err)
}

func TestRun_BadFlag(t *testing.T) {
	code := run(context.Background(), []string{"-nope"}, io.Discard)
	assert.Equal(t, 2, code)
}
