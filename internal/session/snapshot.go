package session

import (
	"time"

	"astrofs/internal/plugin"
	"astrofs/internal/theme"
	"astrofs/pkg/types"
)

// Snapshots are value copies. Mutating one never touches live session
// state.

// WorkspaceSnapshot is the navigation state at a point in time.
type WorkspaceSnapshot struct {
	CurrentDir    string
	Entries       []types.Entry
	SelectedIndex int
	ShowHidden    bool
}

// SearchSnapshot is the last published query and its result set.
type SearchSnapshot struct {
	Query   string
	Results []types.Entry
}

// BookmarkSnapshot is the bookmark set in insertion order.
type BookmarkSnapshot struct {
	Bookmarks []types.Bookmark
}

// ThemeSnapshot is the active theme and the available names.
type ThemeSnapshot struct {
	Active    string
	Styles    theme.Styles
	Available []string
}

// PluginSnapshot is the discovered plugins and the commands enabled
// ones contribute.
type PluginSnapshot struct {
	Plugins  []types.PluginInfo
	Commands []plugin.Command
}

// PlayerSnapshot is the playback state machine at a point in time.
type PlayerSnapshot struct {
	State        types.PlaybackState
	Position     time.Duration
	Duration     time.Duration
	Volume       float64
	Speed        float64
	Repeat       types.RepeatMode
	Playlist     []string
	CurrentIndex int
	CurrentTrack string
}

// Workspace returns the navigation state snapshot.
func (s *Session) Workspace() WorkspaceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WorkspaceSnapshot{
		CurrentDir:    s.ws.CurrentDir(),
		Entries:       s.ws.Entries(),
		SelectedIndex: s.ws.SelectedIndex(),
		ShowHidden:    s.ws.ShowHidden(),
	}
}
