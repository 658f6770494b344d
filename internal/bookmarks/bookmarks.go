// Package bookmarks manages named shortcuts to directories.
package bookmarks

import (
	"astrofs/internal/errors"
	"astrofs/pkg/types"
)

// Manager holds bookmarks keyed by name, preserving insertion order for
// listing. Bookmark targets are not revalidated here; a target may stop
// existing after it was added and is checked when it is resolved.
type Manager struct {
	byName map[string]types.Bookmark
	order  []string
}

// New creates an empty bookmark manager.
func New() *Manager {
	return &Manager{byName: make(map[string]types.Bookmark)}
}

// Add registers a bookmark. Names are unique; adding an existing name
// fails without modifying the stored bookmark.
func (m *Manager) Add(b types.Bookmark) error {
	if b.Name == "" {
		return errors.New(errors.InvalidArgument, "bookmark name must not be empty")
	}
	if b.Path == "" {
		return errors.New(errors.InvalidArgument, "bookmark path must not be empty")
	}
	if _, ok := m.byName[b.Name]; ok {
		return errors.Newf(errors.AlreadyExists, "bookmark %q already exists", b.Name)
	}
	if b.Icon == "" {
		b.Icon = types.DefaultBookmarkIcon
	}
	m.byName[b.Name] = b
	m.order = append(m.order, b.Name)
	return nil
}

// Remove deletes the bookmark with the given name.
func (m *Manager) Remove(name string) error {
	if _, ok := m.byName[name]; !ok {
		return errors.Newf(errors.NotFound, "no bookmark named %q", name)
	}
	delete(m.byName, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get resolves a bookmark by name.
func (m *Manager) Get(name string) (types.Bookmark, error) {
	b, ok := m.byName[name]
	if !ok {
		return types.Bookmark{}, errors.Newf(errors.NotFound, "no bookmark named %q", name)
	}
	return b, nil
}

// Update replaces the stored bookmark under b.Name, keeping its
// position in the listing.
func (m *Manager) Update(b types.Bookmark) error {
	if _, ok := m.byName[b.Name]; !ok {
		return errors.Newf(errors.NotFound, "no bookmark named %q", b.Name)
	}
	if b.Path == "" {
		return errors.New(errors.InvalidArgument, "bookmark path must not be empty")
	}
	if b.Icon == "" {
		b.Icon = types.DefaultBookmarkIcon
	}
	m.byName[b.Name] = b
	return nil
}

// List returns all bookmarks in insertion order.
func (m *Manager) List() []types.Bookmark {
	out := make([]types.Bookmark, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.byName[name])
	}
	return out
}

// Replace swaps the full bookmark set, used when restoring saved
// preferences. Duplicate names keep the first occurrence.
func (m *Manager) Replace(list []types.Bookmark) {
	m.byName = make(map[string]types.Bookmark, len(list))
	m.order = m.order[:0]
	for _, b := range list {
		if b.Name == "" || b.Path == "" {
			continue
		}
		if _, ok := m.byName[b.Name]; ok {
			continue
		}
		if b.Icon == "" {
			b.Icon = types.DefaultBookmarkIcon
		}
		m.byName[b.Name] = b
		m.order = append(m.order, b.Name)
	}
}

// Len returns the number of stored bookmarks.
func (m *Manager) Len() int {
	return len(m.order)
}
