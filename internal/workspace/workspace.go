// Package workspace holds the live navigation state: current directory,
// derived entry listing, selection cursor, and the hidden-file filter.
package workspace

import (
	"path/filepath"

	"astrofs/internal/catalog"
	"astrofs/internal/errors"
	"astrofs/pkg/types"
)

// Workspace binds a directory listing, a selection cursor, and the
// hidden-file visibility flag. Entries are re-derived, never patched
// incrementally, whenever the directory, filter, or contents change.
type Workspace struct {
	currentDir string
	entries    []types.Entry
	selected   int
	showHidden bool
}

// New creates a workspace rooted at dir.
func New(dir string, showHidden bool) (*Workspace, error) {
	w := &Workspace{showHidden: showHidden}
	if err := w.Navigate(dir); err != nil {
		return nil, err
	}
	return w, nil
}

// Navigate changes the current directory to path. On failure the
// workspace is left unchanged.
func (w *Workspace) Navigate(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.FromOS(path, err)
	}
	entries, err := catalog.List(abs, w.showHidden)
	if err != nil {
		return err
	}
	w.currentDir = abs
	w.entries = entries
	w.selected = 0
	return nil
}

// MoveUp navigates to the parent directory. At the filesystem root it
// is a no-op.
func (w *Workspace) MoveUp() error {
	parent := filepath.Dir(w.currentDir)
	if parent == w.currentDir {
		return nil
	}
	return w.Navigate(parent)
}

// MoveDown enters the selected directory. Selecting a file, or having
// nothing selected, is a no-op.
func (w *Workspace) MoveDown() error {
	entry, ok := w.SelectedEntry()
	if !ok || !entry.IsDir {
		return nil
	}
	return w.Navigate(entry.Path)
}

// Refresh re-derives the entry listing from the filesystem. The
// selection follows the previously selected entry by path when it still
// exists, otherwise it is clamped.
func (w *Workspace) Refresh() error {
	prev, hadPrev := w.SelectedEntry()
	entries, err := catalog.List(w.currentDir, w.showHidden)
	if err != nil {
		return err
	}
	w.entries = entries
	if hadPrev {
		if idx := w.indexOf(prev.Path); idx >= 0 {
			w.selected = idx
			return nil
		}
	}
	w.clampSelection()
	return nil
}

// ToggleHidden flips the hidden-file filter and re-derives entries. If
// the previously selected entry is filtered out, the selection resets
// to the first entry.
func (w *Workspace) ToggleHidden() error {
	prev, hadPrev := w.SelectedEntry()
	entries, err := catalog.List(w.currentDir, !w.showHidden)
	if err != nil {
		return err
	}
	w.showHidden = !w.showHidden
	w.entries = entries
	w.selected = 0
	if hadPrev {
		if idx := w.indexOf(prev.Path); idx >= 0 {
			w.selected = idx
		}
	}
	return nil
}

// SelectionUp moves the cursor one entry up.
func (w *Workspace) SelectionUp() {
	if w.selected > 0 {
		w.selected--
	}
}

// SelectionDown moves the cursor one entry down.
func (w *Workspace) SelectionDown() {
	if w.selected < len(w.entries)-1 {
		w.selected++
	}
}

// SelectFirst moves the cursor to the first entry.
func (w *Workspace) SelectFirst() {
	w.selected = 0
}

// SelectLast moves the cursor to the last entry.
func (w *Workspace) SelectLast() {
	if len(w.entries) > 0 {
		w.selected = len(w.entries) - 1
	} else {
		w.selected = 0
	}
}

// SelectPath moves the cursor to the entry with the given path.
func (w *Workspace) SelectPath(path string) bool {
	if idx := w.indexOf(path); idx >= 0 {
		w.selected = idx
		return true
	}
	return false
}

// SelectedEntry returns the entry under the cursor, or false when the
// listing is empty.
func (w *Workspace) SelectedEntry() (types.Entry, bool) {
	if len(w.entries) == 0 || w.selected < 0 || w.selected >= len(w.entries) {
		return types.Entry{}, false
	}
	return w.entries[w.selected], true
}

// CurrentDir returns the absolute current directory.
func (w *Workspace) CurrentDir() string {
	return w.currentDir
}

// Entries returns a copy of the current listing.
func (w *Workspace) Entries() []types.Entry {
	out := make([]types.Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// SelectedIndex returns the cursor position; it is meaningful only when
// the listing is non-empty.
func (w *Workspace) SelectedIndex() int {
	return w.selected
}

// ShowHidden reports the hidden-file filter state.
func (w *Workspace) ShowHidden() bool {
	return w.showHidden
}

func (w *Workspace) indexOf(path string) int {
	for i, e := range w.entries {
		if e.Path == path {
			return i
		}
	}
	return -1
}

func (w *Workspace) clampSelection() {
	if len(w.entries) == 0 {
		w.selected = 0
		return
	}
	if w.selected >= len(w.entries) {
		w.selected = len(w.entries) - 1
	}
	if w.selected < 0 {
		w.selected = 0
	}
}
