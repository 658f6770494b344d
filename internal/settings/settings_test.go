package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"astrofs/internal/errors"
	"astrofs/internal/settings"
	"astrofs/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() *settings.Document {
	doc := settings.NewDocument()
	doc.Theme = "astro"
	doc.ShowHidden = true
	doc.Bookmarks = []types.Bookmark{
		{Name: "music", Path: "/home/user/music", Icon: "🎵"},
		{Name: "work", Path: "/home/user/work", Icon: types.DefaultBookmarkIcon},
	}
	doc.Plugins = map[string]bool{"neon-pack": true, "extra": false}
	doc.Player = types.PlayerPrefs{Volume: 0.7, Speed: 1.5, Repeat: types.RepeatAll}
	return doc
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := settings.NewStore(t.TempDir())
	doc := sampleDoc()

	require.NoError(t, s.Save(doc))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, doc.SettingsID, loaded.SettingsID)
	assert.Equal(t, "astro", loaded.Theme)
	assert.True(t, loaded.ShowHidden)
	assert.Equal(t, doc.Bookmarks, loaded.Bookmarks)
	assert.Equal(t, doc.Plugins, loaded.Plugins)
	assert.Equal(t, doc.Player, loaded.Player)
}

func TestLoadMissing(t *testing.T) {
	s := settings.NewStore(t.TempDir())

	_, err := s.Load()
	assert.True(t, errors.IsNotFound(err))
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	s := settings.NewStore(dir)

	require.NoError(t, os.WriteFile(s.Path(), []byte("{not yaml"), 0644))
	_, err := s.Load()
	assert.True(t, errors.IsCorruptData(err))

	require.NoError(t, os.WriteFile(s.Path(), []byte("theme: dark\n"), 0644))
	_, err = s.Load()
	assert.True(t, errors.IsCorruptData(err), "missing version is corrupt")

	require.NoError(t, os.WriteFile(s.Path(), []byte("version: 99\n"), 0644))
	_, err = s.Load()
	assert.True(t, errors.IsCorruptData(err), "newer version is rejected")
}

func TestSaveKeepsPreviousOnFailure(t *testing.T) {
	dir := t.TempDir()
	s := settings.NewStore(dir)
	require.NoError(t, s.Save(sampleDoc()))

	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	// No temp file debris after a successful save.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, settings.FileName, entries[0].Name())

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestExportImport(t *testing.T) {
	s := settings.NewStore(t.TempDir())
	doc := sampleDoc()

	exported := filepath.Join(t.TempDir(), "backup", "astrofs.yaml")
	require.NoError(t, s.ExportTo(exported, doc))

	imported, err := s.ImportFrom(exported)
	require.NoError(t, err)
	assert.Equal(t, doc.Theme, imported.Theme)
	assert.Equal(t, doc.Bookmarks, imported.Bookmarks)
	assert.Equal(t, doc.Player, imported.Player)

	_, err = s.ImportFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.IsNotFound(err))
}

func TestLoadDefaultsMissingSections(t *testing.T) {
	dir := t.TempDir()
	s := settings.NewStore(dir)

	require.NoError(t, os.WriteFile(s.Path(), []byte("version: 1\ntheme: dark\n"), 0644))
	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.Theme)
	assert.Equal(t, types.DefaultPlayerPrefs(), loaded.Player, "absent player section keeps default prefs")
	assert.NotEmpty(t, loaded.SettingsID)
	assert.NotNil(t, loaded.Plugins)

	t.Run("partial player section", func(t *testing.T) {
		require.NoError(t, os.WriteFile(s.Path(), []byte("version: 1\nplayer:\n  volume: 0.3\n"), 0644))
		loaded, err := s.Load()
		require.NoError(t, err)
		assert.InDelta(t, 0.3, loaded.Player.Volume, 1e-9)
		assert.InDelta(t, 1.0, loaded.Player.Speed, 1e-9, "unset speed stays at default")
	})
}

func TestNewDocumentDefaults(t *testing.T) {
	doc := settings.NewDocument()
	assert.Equal(t, settings.Version, doc.Version)
	assert.NotEmpty(t, doc.SettingsID)
	assert.Equal(t, "default", doc.Theme)
	assert.Equal(t, types.DefaultPlayerPrefs(), doc.Player)
	assert.NotNil(t, doc.Plugins)
}
