package history_test

import (
	"path/filepath"
	"testing"

	"astrofs/internal/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, limit int) *history.Store {
	t.Helper()
	s, err := history.Open(filepath.Join(t.TempDir(), "history.db"), limit)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openStore(t, 50)

	require.NoError(t, s.Record("*.txt", 3, "/home/a"))
	require.NoError(t, s.Record("*.md", 1, "/home/b"))

	recent, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "*.md", recent[0].Pattern)
	assert.Equal(t, 1, recent[0].ResultCount)
	assert.Equal(t, "*.txt", recent[1].Pattern)
	assert.False(t, recent[0].At.IsZero())
}

func TestRecordDedup(t *testing.T) {
	s := openStore(t, 50)

	require.NoError(t, s.Record("*.txt", 3, "/a"))
	require.NoError(t, s.Record("*.md", 1, "/a"))
	require.NoError(t, s.Record("*.txt", 5, "/b"))

	recent, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "*.txt", recent[0].Pattern)
	assert.Equal(t, 5, recent[0].ResultCount)
	assert.Equal(t, "*.md", recent[1].Pattern)
}

func TestLimitTrimsOldest(t *testing.T) {
	s := openStore(t, 3)

	for _, p := range []string{"one", "two", "three", "four"} {
		require.NoError(t, s.Record(p, 0, "/"))
	}

	recent, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "four", recent[0].Pattern)
	assert.Equal(t, "two", recent[2].Pattern)
}

func TestEmptyPatternIgnored(t *testing.T) {
	s := openStore(t, 10)

	require.NoError(t, s.Record("", 0, "/"))
	recent, err := s.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestClear(t *testing.T) {
	s := openStore(t, 10)

	require.NoError(t, s.Record("*.go", 2, "/src"))
	require.NoError(t, s.Clear())

	recent, err := s.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := history.Open(path, 10)
	require.NoError(t, err)
	require.NoError(t, s.Record("*.png", 4, "/pics"))
	require.NoError(t, s.Close())

	s, err = history.Open(path, 10)
	require.NoError(t, err)
	defer s.Close()

	recent, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "*.png", recent[0].Pattern)
}
