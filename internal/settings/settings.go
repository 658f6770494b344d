// Package settings persists the user-facing configuration subset:
// theme choice, bookmarks, plugin enablement, player preferences, and
// the hidden-file flag. Transient state (current directory, selection,
// search results, playback position) is never persisted.
package settings

import (
	"os"
	"path/filepath"

	"astrofs/internal/errors"
	"astrofs/internal/log"
	"astrofs/pkg/types"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Version is the current settings document version.
const Version = 1

// FileName is the settings document's name inside the config directory.
const FileName = "settings.yaml"

// Document is the persisted settings snapshot.
type Document struct {
	Version    int               `yaml:"version"`
	SettingsID string            `yaml:"settings_id"`
	Theme      string            `yaml:"theme"`
	ShowHidden bool              `yaml:"show_hidden"`
	Bookmarks  []types.Bookmark  `yaml:"bookmarks"`
	Plugins    map[string]bool   `yaml:"plugins"`
	Player     types.PlayerPrefs `yaml:"player"`
}

// NewDocument creates a document with defaults and a fresh settings id.
func NewDocument() *Document {
	return &Document{
		Version:    Version,
		SettingsID: uuid.NewString(),
		Theme:      "default",
		Plugins:    make(map[string]bool),
		Player:     types.DefaultPlayerPrefs(),
	}
}

// Store reads and writes settings documents at a fixed default path.
type Store struct {
	path string
}

// NewStore creates a store over the default location inside configDir.
func NewStore(configDir string) *Store {
	return &Store{path: filepath.Join(configDir, FileName)}
}

// Path returns the default document location.
func (s *Store) Path() string { return s.path }

// Load reads the document from the default location. A missing file
// yields NotFound so callers can fall back to defaults; an unparsable
// file yields CorruptData.
func (s *Store) Load() (*Document, error) {
	return readDocument(s.path)
}

// Save writes the document to the default location. The write goes to a
// temporary file first and is renamed into place, so a failed write
// leaves any previous document untouched.
func (s *Store) Save(doc *Document) error {
	return writeDocument(s.path, doc)
}

// ExportTo writes the document to an explicit caller-chosen path with
// the same write discipline as Save.
func (s *Store) ExportTo(path string, doc *Document) error {
	return writeDocument(path, doc)
}

// ImportFrom reads a document from an explicit path, with the same
// failure taxonomy as Load.
func (s *Store) ImportFrom(path string) (*Document, error) {
	return readDocument(path)
}

func readDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.PathError(errors.NotFound, "no settings document", path)
		}
		return nil, errors.FromOS(path, err)
	}

	// Player prefs are prefilled so a document without a player section
	// keeps sane volume and speed instead of zeroes.
	doc := Document{Player: types.DefaultPlayerPrefs()}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapPath(errors.CorruptData, err, "malformed settings document", path)
	}
	if doc.Version == 0 {
		return nil, errors.PathError(errors.CorruptData, "settings document missing version", path)
	}
	if doc.Version > Version {
		return nil, errors.Newf(errors.CorruptData, "settings version %d is newer than supported %d", doc.Version, Version)
	}
	if doc.SettingsID == "" {
		doc.SettingsID = uuid.NewString()
	}
	if doc.Plugins == nil {
		doc.Plugins = make(map[string]bool)
	}
	if doc.Theme == "" {
		doc.Theme = "default"
	}
	return &doc, nil
}

func writeDocument(path string, doc *Document) error {
	if doc.Version == 0 {
		doc.Version = Version
	}
	if doc.SettingsID == "" {
		doc.SettingsID = uuid.NewString()
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.IOError, err, "cannot encode settings")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.FromOS(dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return errors.FromOS(dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.WrapPath(errors.IOError, err, "cannot write settings", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.WrapPath(errors.IOError, err, "cannot write settings", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.FromOS(path, err)
	}
	log.Debug("settings written to %s", path)
	return nil
}
