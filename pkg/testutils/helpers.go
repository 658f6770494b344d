package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFiles creates files under dir with the given contents. Parent
// directories in the names are created as needed.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// SeedTree creates a small mixed tree: visible files, a hidden file,
// and a subdirectory with one file.
func SeedTree(t *testing.T, dir string) {
	t.Helper()
	WriteFiles(t, dir, map[string]string{
		"notes.txt":      "notes",
		"track.mp3":      "audio",
		".env":           "secret",
		"docs/guide.txt": "guide",
	})
}

// Names extracts the final path components from paths, for order
// assertions.
func Names(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
