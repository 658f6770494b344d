package search_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"astrofs/internal/errors"
	"astrofs/internal/search"
	"astrofs/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs", "deep"), 0755))
	for _, f := range []string{
		"readme.txt",
		"notes.md",
		"docs/guide.txt",
		"docs/deep/todo.txt",
		"docs/deep/image.png",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, filepath.FromSlash(f)), []byte("x"), 0644))
	}
	return dir
}

func TestSearchGlob(t *testing.T) {
	dir := seedTree(t)
	e := search.New(100, 10)

	results, err := e.Search(dir, "*.txt")
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, ".txt", filepath.Ext(r.Name))
	}

	t.Run("question mark", func(t *testing.T) {
		results, err := e.Search(dir, "?otes.md")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "notes.md", results[0].Name)
	})

	t.Run("case insensitive", func(t *testing.T) {
		results, err := e.Search(dir, "README.*")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "readme.txt", results[0].Name)
	})
}

func TestSearchValidation(t *testing.T) {
	e := search.New(100, 10)

	_, err := e.Search(t.TempDir(), "")
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = e.Search(t.TempDir(), "[")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestSearchReplacesWholesale(t *testing.T) {
	dir := seedTree(t)
	e := search.New(100, 10)

	_, err := e.Search(dir, "*.txt")
	require.NoError(t, err)

	results, err := e.Search(dir, "*.md")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "notes.md", results[0].Name)
	assert.Equal(t, "*.md", e.Query())
	assert.Len(t, e.Results(), 1)
}

func TestSearchRelevanceOrdering(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"log.txt", "alog.txt", "catalog.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
	}
	e := search.New(100, 10)

	results, err := e.Search(dir, "log*")
	require.NoError(t, err)
	require.Len(t, results, 3)
	// Prefix match first, then closest by edit distance.
	assert.Equal(t, "log.txt", results[0].Name)
	assert.Equal(t, "alog.txt", results[1].Name)
	assert.Equal(t, "catalog.txt", results[2].Name)
}

func TestSearchMatchesAnywhereInName(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"logbook.md", "catalog.txt", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
	}
	e := search.New(100, 10)

	// A bare word is a substring query, not an exact-name glob.
	results, err := e.Search(dir, "log")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "logbook.md", results[0].Name)
	assert.Equal(t, "catalog.txt", results[1].Name)
}

func TestMaxResults(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("file-%02d.dat", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	e := search.New(5, 10)

	results, err := e.Search(dir, "*.dat")
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestMaxDepth(t *testing.T) {
	dir := t.TempDir()
	deep := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(deep, "buried.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "top.txt"), []byte("x"), 0644))

	e := search.New(100, 2)
	results, err := e.Search(dir, "*.txt")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "top.txt", results[0].Name)
}

func TestClearIdempotent(t *testing.T) {
	dir := seedTree(t)
	e := search.New(100, 10)

	_, err := e.Search(dir, "*.txt")
	require.NoError(t, err)
	require.NotEmpty(t, e.Results())

	e.Clear()
	assert.Empty(t, e.Results())
	assert.Empty(t, e.Query())
	e.Clear()
	assert.Empty(t, e.Results())
}

func TestLatestSearchWins(t *testing.T) {
	dir := seedTree(t)
	e := search.New(100, 10)

	// Hammer the engine with overlapping queries. Whatever the
	// interleaving, the published set must belong to exactly one query:
	// never a mix of .txt and .md matches.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		pattern := "*.txt"
		if i%2 == 1 {
			pattern = "*.md"
		}
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			_, _ = e.Search(dir, p)
		}(pattern)
	}
	wg.Wait()

	results := e.Results()
	require.NotEmpty(t, results)
	want := filepath.Ext(results[0].Name)
	for _, r := range results {
		assert.Equal(t, want, filepath.Ext(r.Name), "result set must never mix queries")
	}
	switch want {
	case ".txt":
		assert.Equal(t, "*.txt", e.Query())
	case ".md":
		assert.Equal(t, "*.md", e.Query())
	}
}

func TestRegisteredFilterRuns(t *testing.T) {
	dir := seedTree(t)
	e := search.New(100, 10)

	e.RegisterFilter("dirs-only", func(pattern string, results []types.Entry) []types.Entry {
		out := results[:0]
		for _, r := range results {
			if !r.IsDir {
				out = append(out, r)
			}
		}
		return out
	})

	results, err := e.Search(dir, "*")
	require.NoError(t, err)
	for _, r := range results {
		assert.False(t, r.IsDir)
	}

	e.UnregisterFilter("dirs-only")
	results, err = e.Search(dir, "*")
	require.NoError(t, err)
	dirs := 0
	for _, r := range results {
		if r.IsDir {
			dirs++
		}
	}
	assert.Positive(t, dirs, "filter must be fully revoked")
}
