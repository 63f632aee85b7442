package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/siftworks/metasift"
	main "github.com/siftworks/metasift/cmd/metasift"
	"github.com/siftworks/metasift/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html>
<head>
<title>Fallback</title>
<script type="application/ld+json">
{"@type": "NewsArticle", "headline": "Test Headline", "author": {"name": "Jane Doe"},
 "datePublished": "2025-01-01T10:00:00Z"}
</script>
</head>
<body><article><p>First paragraph.</p><p>Second paragraph.</p></article></body>
</html>`

const productPage = `<!DOCTYPE html>
<html>
<head>
<script type="application/ld+json">
{"@type": "Product", "name": "Widget", "offers": {"price": "19.99", "priceCurrency": "USD"}}
</script>
</head>
<body><div id="availability"><span class="a-color-success">In Stock.</span></div></body>
</html>`

func runMain(t *testing.T, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	t.Helper()
	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "metasift.db")
	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}
	err = m.Run(context.Background(), args, stdout, stderr)
	return stdout, stderr, err
}

func TestCmdArticle(t *testing.T) {
	t.Parallel()

	t.Run("prints the extracted article as JSON", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(articlePage))
		}))
		defer server.Close()

		stdout, _, err := runMain(t, "article", server.URL)

		require.NoError(t, err)
		var article metasift.Article
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &article))
		assert.Equal(t, "Test Headline", article.Title)
		assert.Equal(t, "Jane Doe", article.Author)
		assert.Equal(t, "2025-01-01T10:00:00Z", article.PublishedAt)
		assert.True(t, strings.HasPrefix(article.Content, "First paragraph."))
	})

	t.Run("fails with the HTTP status on a client error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, stderr, err := runMain(t, "article", server.URL)

		require.Error(t, err)
		assert.Equal(t, 404, metasift.ErrorStatus(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestCmdPrice(t *testing.T) {
	t.Parallel()

	t.Run("prints the extracted observation as JSON", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(productPage))
		}))
		defer server.Close()

		stdout, _, err := runMain(t, "price", server.URL+"/dp/B08N5WRWNW/")

		require.NoError(t, err)
		var info metasift.PriceInfo
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &info))
		require.NotNil(t, info.Price)
		assert.Equal(t, 19.99, *info.Price)
		assert.Equal(t, "USD", info.Currency)
		assert.Equal(t, "Widget", info.Title)
		assert.Equal(t, "B08N5WRWNW", info.ASIN)
		assert.Equal(t, "In Stock.", info.Availability)
		assert.False(t, info.Timestamp.IsZero())
	})
}

func TestCmdTrack(t *testing.T) {
	t.Parallel()

	t.Run("appends observations to a JSONL file", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(productPage))
		}))
		defer server.Close()

		out := filepath.Join(t.TempDir(), "prices.jsonl")
		stdout, _, err := runMain(t, "track", "--out", out, server.URL+"/dp/B08N5WRWNW/")

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Tracked 1, failed 0")

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		var info metasift.PriceInfo
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &info))
		require.NotNil(t, info.Price)
		assert.Equal(t, 19.99, *info.Price)
	})

	t.Run("records to SQLite and skips unchanged observations", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(productPage))
		}))
		defer server.Close()

		dbPath := filepath.Join(t.TempDir(), "prices.db")
		url := server.URL + "/dp/B08N5WRWNW/"

		_, _, err := runMain(t, "track", "--db", dbPath, "--changes-only", url)
		require.NoError(t, err)
		_, _, err = runMain(t, "track", "--db", dbPath, "--changes-only", url)
		require.NoError(t, err)

		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()

		infos, err := sqlite.NewPriceService(db).FindPrices(context.Background(), metasift.PriceFilter{})
		require.NoError(t, err)
		assert.Len(t, infos, 1)
	})

	t.Run("tracks watchlist targets", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(productPage))
		}))
		defer server.Close()

		dir := t.TempDir()
		out := filepath.Join(dir, "watched.jsonl")
		watchlist := filepath.Join(dir, "watchlist.yaml")
		require.NoError(t, os.WriteFile(watchlist, []byte(
			"targets:\n  - url: "+server.URL+"/dp/B08N5WRWNW/\n    output: "+out+"\n"), 0644))

		stdout, _, err := runMain(t, "track", "--watchlist", watchlist)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Tracked 1, failed 0")
		_, err = os.Stat(out)
		assert.NoError(t, err)
	})

	t.Run("partial failure exits non-zero with counts", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "bad") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(productPage))
		}))
		defer server.Close()

		out := filepath.Join(t.TempDir(), "prices.jsonl")
		stdout, _, err := runMain(t, "track", "--out", out,
			server.URL+"/dp/B08N5WRWNW/", server.URL+"/bad")

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "Tracked 1, failed 1")
	})

	t.Run("requires at least one URL", func(t *testing.T) {
		t.Parallel()

		_, _, err := runMain(t, "track")

		require.Error(t, err)
		assert.Equal(t, metasift.EINVALID, metasift.ErrorCode(err))
	})

	t.Run("changes-only without db is rejected", func(t *testing.T) {
		t.Parallel()

		_, _, err := runMain(t, "track", "--changes-only", "https://example.com/p")

		require.Error(t, err)
		assert.Equal(t, metasift.EINVALID, metasift.ErrorCode(err))
	})
}

func TestCmdHistory(t *testing.T) {
	t.Parallel()

	t.Run("lists recorded observations newest first", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(productPage))
		}))
		defer server.Close()

		dbPath := filepath.Join(t.TempDir(), "prices.db")
		url := server.URL + "/dp/B08N5WRWNW/"

		_, _, err := runMain(t, "track", "--db", dbPath, url)
		require.NoError(t, err)

		stdout, _, err := runMain(t, "history", "--db", dbPath, url)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "19.99 USD")
		assert.Contains(t, stdout.String(), "In Stock.")
	})

	t.Run("reports an empty history", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "prices.db")

		stdout, _, err := runMain(t, "history", "--db", dbPath, "https://example.com/p")

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No observations recorded")
	})
}

func TestMainRun(t *testing.T) {
	t.Parallel()

	t.Run("no command prints help and errors", func(t *testing.T) {
		t.Parallel()

		_, _, err := runMain(t)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runMain(t, "--help")

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "metasift")
	})
}
