// Package session is the orchestrator. It owns one instance of each
// subsystem, routes every external call to exactly one of them, and
// hands callers immutable snapshots instead of live state.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"astrofs/internal/bookmarks"
	"astrofs/internal/config"
	"astrofs/internal/errors"
	"astrofs/internal/fileops"
	"astrofs/internal/history"
	"astrofs/internal/log"
	"astrofs/internal/media"
	"astrofs/internal/plugin"
	"astrofs/internal/search"
	"astrofs/internal/settings"
	"astrofs/internal/theme"
	"astrofs/internal/watch"
	"astrofs/internal/workspace"
	"astrofs/pkg/types"
)

// Option customizes session construction.
type Option func(*options)

type options struct {
	settingsDir string
	historyPath string
	probe       media.DurationProbe
	noHistory   bool
}

// WithSettingsDir overrides where the settings document lives.
func WithSettingsDir(dir string) Option {
	return func(o *options) { o.settingsDir = dir }
}

// WithHistoryPath overrides where the search history database lives.
func WithHistoryPath(path string) Option {
	return func(o *options) { o.historyPath = path }
}

// WithDurationProbe supplies the media duration probe.
func WithDurationProbe(probe media.DurationProbe) Option {
	return func(o *options) { o.probe = probe }
}

// WithoutHistory disables search history persistence.
func WithoutHistory() Option {
	return func(o *options) { o.noHistory = true }
}

// Session owns all subsystems. Public methods serialize through an
// internal mutex; callers hold no references into live state.
type Session struct {
	mu sync.Mutex

	cfg       *config.Config
	ws        *workspace.Workspace
	engine    *search.Engine
	marks     *bookmarks.Manager
	themes    *theme.Manager
	plugins   *plugin.Manager
	player    *media.Player
	store     *settings.Store
	hist      *history.Store
	watcher   *watch.Watcher
	watchDone chan struct{}
	stale     atomic.Bool

	settingsID  string
	pluginPrefs map[string]bool
}

// New builds a session from cfg. The workspace starts at the configured
// default directory, falling back to the user's home and then the
// working directory.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.settingsDir == "" {
		dir, err := config.ConfigDir()
		if err != nil {
			return nil, errors.Wrap(errors.IOError, err, "cannot resolve config directory")
		}
		o.settingsDir = dir
	}
	if o.historyPath == "" {
		dir, err := config.DataDir()
		if err != nil {
			log.Warn("cannot resolve data directory, search history disabled: %v", err)
			o.noHistory = true
		} else {
			o.historyPath = filepath.Join(dir, "history.db")
		}
	}

	startDir := cfg.General.DefaultDirectory
	if startDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			startDir = home
		} else if wd, err := os.Getwd(); err == nil {
			startDir = wd
		} else {
			startDir = "/"
		}
	}
	ws, err := workspace.New(startDir, cfg.General.ShowHidden)
	if err != nil {
		return nil, err
	}

	themes := theme.NewManager()
	engine := search.New(cfg.Search.MaxResults, cfg.Search.MaxDepth)

	pluginDir := cfg.Plugins.Directory
	if pluginDir == "" {
		if dir, err := config.ConfigDir(); err == nil {
			pluginDir = filepath.Join(dir, "plugins")
		} else {
			pluginDir = "plugins"
		}
	}

	s := &Session{
		cfg:         cfg,
		ws:          ws,
		engine:      engine,
		marks:       bookmarks.New(),
		themes:      themes,
		plugins:     plugin.NewManager(pluginDir, themes, engine),
		player:      media.NewPlayer(o.probe),
		store:       settings.NewStore(o.settingsDir),
		pluginPrefs: make(map[string]bool),
	}

	if !o.noHistory {
		hist, err := history.Open(o.historyPath, cfg.Search.HistorySize)
		if err != nil {
			log.Warn("search history unavailable: %v", err)
		} else {
			s.hist = hist
		}
	}
	return s, nil
}

// Close releases the watcher and history store. The session must not be
// used afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			first = err
		}
		<-s.watchDone
		s.watcher = nil
	}
	if s.hist != nil {
		if err := s.hist.Close(); err != nil && first == nil {
			first = err
		}
		s.hist = nil
	}
	return first
}

// ---- navigation ----

// Navigate changes the current directory.
func (s *Session) Navigate(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ws.Navigate(path); err != nil {
		return err
	}
	s.rewatchLocked()
	return nil
}

// CurrentDir returns the workspace's current directory.
func (s *Session) CurrentDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.CurrentDir()
}

// MoveUp navigates to the parent directory.
func (s *Session) MoveUp() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ws.MoveUp(); err != nil {
		return err
	}
	s.rewatchLocked()
	return nil
}

// MoveDown enters the selected directory.
func (s *Session) MoveDown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ws.MoveDown(); err != nil {
		return err
	}
	s.rewatchLocked()
	return nil
}

// Refresh re-derives the entry listing.
func (s *Session) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale.Store(false)
	return s.ws.Refresh()
}

// ListFiles returns the current listing, re-deriving it first when the
// watcher flagged the directory as changed.
func (s *Session) ListFiles() ([]types.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale.Swap(false) {
		if err := s.ws.Refresh(); err != nil {
			return nil, err
		}
	}
	return s.ws.Entries(), nil
}

// SelectedEntry returns the entry under the cursor.
func (s *Session) SelectedEntry() (types.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.SelectedEntry()
}

// SelectionUp moves the cursor one entry up.
func (s *Session) SelectionUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.SelectionUp()
}

// SelectionDown moves the cursor one entry down.
func (s *Session) SelectionDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.SelectionDown()
}

// SelectPath moves the cursor to the entry at path.
func (s *Session) SelectPath(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.SelectPath(path)
}

// ToggleHidden flips the hidden-file filter.
func (s *Session) ToggleHidden() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.ToggleHidden()
}

// ---- file operations ----

// CreateFile creates an empty file named name in the current directory.
func (s *Session) CreateFile(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, err := s.childPathLocked(name)
	if err != nil {
		return err
	}
	if err := fileops.CreateFile(path); err != nil {
		return err
	}
	return s.refreshSelectLocked(path)
}

// CreateDirectory creates a directory named name in the current
// directory.
func (s *Session) CreateDirectory(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, err := s.childPathLocked(name)
	if err != nil {
		return err
	}
	if err := fileops.CreateDir(path); err != nil {
		return err
	}
	return s.refreshSelectLocked(path)
}

// DeleteSelected removes the entry under the cursor.
func (s *Session) DeleteSelected() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.ws.SelectedEntry()
	if !ok {
		return errors.New(errors.InvalidArgument, "nothing selected")
	}
	if err := fileops.Delete(entry.Path); err != nil {
		return err
	}
	return s.ws.Refresh()
}

// DeletePath removes an explicit path.
func (s *Session) DeletePath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fileops.Delete(path); err != nil {
		return err
	}
	return s.ws.Refresh()
}

// RenameSelected renames the entry under the cursor within its
// directory.
func (s *Session) RenameSelected(newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.ws.SelectedEntry()
	if !ok {
		return errors.New(errors.InvalidArgument, "nothing selected")
	}
	renamed, err := fileops.Rename(entry.Path, newName)
	if err != nil {
		return err
	}
	return s.refreshSelectLocked(renamed)
}

// DuplicateSelected copies the entry under the cursor, directories
// recursively, picking a non-colliding "name copy" variant.
func (s *Session) DuplicateSelected() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.ws.SelectedEntry()
	if !ok {
		return errors.New(errors.InvalidArgument, "nothing selected")
	}
	copied, err := fileops.Duplicate(entry.Path)
	if err != nil {
		return err
	}
	return s.refreshSelectLocked(copied)
}

// ---- search ----

// Search runs pattern against the current directory subtree. The result
// set replaces any previous one wholesale.
func (s *Session) Search(pattern string) ([]types.Entry, error) {
	s.mu.Lock()
	root := s.ws.CurrentDir()
	s.mu.Unlock()

	// Deliberately outside the session lock so a newer Search can
	// supersede an in-flight traversal.
	results, err := s.engine.Search(root, pattern)
	if err != nil {
		return nil, err
	}
	// A superseded query returns the newer query's published set, so
	// only record history when this pattern is the one that published.
	if s.hist != nil && s.engine.Query() == pattern {
		if err := s.hist.Record(pattern, len(results), root); err != nil {
			log.Warn("search history: %v", err)
		}
	}
	return results, nil
}

// SearchResults returns the current query and result set.
func (s *Session) SearchResults() SearchSnapshot {
	return SearchSnapshot{Query: s.engine.Query(), Results: s.engine.Results()}
}

// NavigateToSearchResult navigates to the parent of the indexed result
// with that entry selected.
func (s *Session) NavigateToSearchResult(index int) error {
	results := s.engine.Results()
	if index < 0 || index >= len(results) {
		return errors.Newf(errors.IndexOutOfRange, "search result index %d out of range (%d results)", index, len(results))
	}
	target := results[index]

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ws.Navigate(filepath.Dir(target.Path)); err != nil {
		return err
	}
	s.rewatchLocked()
	s.ws.SelectPath(target.Path)
	return nil
}

// ClearSearch empties the result set.
func (s *Session) ClearSearch() {
	s.engine.Clear()
}

// RecentSearches returns up to n previously submitted queries, newest
// first. Without a history store it returns nothing.
func (s *Session) RecentSearches(n int) ([]history.Query, error) {
	if s.hist == nil {
		return nil, nil
	}
	return s.hist.Recent(n)
}

// ---- bookmarks ----

// AddBookmark captures the current directory under name.
func (s *Session) AddBookmark(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks.Add(types.Bookmark{Name: name, Path: s.ws.CurrentDir()})
}

// RemoveBookmark deletes the named bookmark.
func (s *Session) RemoveBookmark(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks.Remove(name)
}

// GotoBookmark navigates to the bookmarked directory. Stale bookmarks
// surface the navigation failure; they are not auto-pruned.
func (s *Session) GotoBookmark(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.marks.Get(name)
	if err != nil {
		return err
	}
	if err := s.ws.Navigate(b.Path); err != nil {
		return err
	}
	s.rewatchLocked()
	return nil
}

// Bookmarks returns the bookmark set in insertion order.
func (s *Session) Bookmarks() BookmarkSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BookmarkSnapshot{Bookmarks: s.marks.List()}
}

// ---- themes ----

// ListThemes returns available theme names, sorted.
func (s *Session) ListThemes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.themes.List()
}

// SwitchTheme makes the named theme active.
func (s *Session) SwitchTheme(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.themes.Switch(name)
}

// Theme returns the active theme and the available set.
func (s *Session) Theme() ThemeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := s.themes.Active()
	return ThemeSnapshot{
		Active:    active.Name,
		Styles:    active.Styles,
		Available: s.themes.List(),
	}
}

// ---- plugins ----

// LoadPlugins discovers plugin manifests and re-applies persisted
// enablement. Finding none is reported with the NoPluginsFound kind,
// which callers treat as informational.
func (s *Session) LoadPlugins() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cfg.Plugins.Enabled {
		return errors.New(errors.NoPluginsFound, "plugin discovery is disabled")
	}
	if err := s.plugins.Load(); err != nil {
		return err
	}
	for id, enabled := range s.pluginPrefs {
		if !enabled {
			continue
		}
		if err := s.plugins.Enable(id); err != nil {
			log.Warn("cannot re-enable plugin %s: %v", id, err)
		}
	}
	return nil
}

// EnablePlugin applies the plugin's capabilities.
func (s *Session) EnablePlugin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.plugins.Enable(id); err != nil {
		return err
	}
	s.pluginPrefs[id] = true
	return nil
}

// DisablePlugin revokes the plugin's capabilities.
func (s *Session) DisablePlugin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.plugins.Disable(id); err != nil {
		return err
	}
	s.pluginPrefs[id] = false
	return nil
}

// Plugins returns the discovered plugins and enabled commands.
func (s *Session) Plugins() PluginSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PluginSnapshot{Plugins: s.plugins.List(), Commands: s.plugins.Commands()}
}

// ---- media ----

// PlayMedia loads path into the playlist and starts playing it.
func (s *Session) PlayMedia(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Play(path)
}

// PauseMedia pauses playback; outside Playing it is a no-op.
func (s *Session) PauseMedia() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Pause()
}

// StopMedia halts playback and resets the position.
func (s *Session) StopMedia() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Stop()
}

// ToggleMediaPlayback maps Playing to Paused and Paused or Stopped to
// Playing.
func (s *Session) ToggleMediaPlayback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Toggle()
}

// MediaSeek moves the playback position, clamped to the track bounds.
func (s *Session) MediaSeek(pos time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.Seek(pos)
}

// MediaSeekBy moves the playback position relative to the current one.
func (s *Session) MediaSeekBy(delta time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.SeekBy(delta)
}

// MediaAdjustVolume shifts the volume, clamped into [0, 1].
func (s *Session) MediaAdjustVolume(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.AdjustVolume(delta)
}

// MediaAdjustSpeed shifts the speed multiplier, clamped into its
// bounds.
func (s *Session) MediaAdjustSpeed(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.AdjustSpeed(delta)
}

// MediaCycleRepeat rotates the repeat mode.
func (s *Session) MediaCycleRepeat() types.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.CycleRepeat()
}

// MediaNext skips to the following playlist track.
func (s *Session) MediaNext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Next()
}

// MediaPrevious skips to the preceding playlist track.
func (s *Session) MediaPrevious() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Previous()
}

// MediaTick advances the playback position by elapsed wall time; the
// external clock calls this.
func (s *Session) MediaTick(elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player.Tick(elapsed)
}

// Player returns the playback state snapshot.
func (s *Session) Player() PlayerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	track, _ := s.player.CurrentTrack()
	return PlayerSnapshot{
		State:        s.player.State(),
		Position:     s.player.Position(),
		Duration:     s.player.Duration(),
		Volume:       s.player.Volume(),
		Speed:        s.player.Speed(),
		Repeat:       s.player.Repeat(),
		Playlist:     s.player.Playlist(),
		CurrentIndex: s.player.CurrentIndex(),
		CurrentTrack: track,
	}
}

// MediaStatus renders the one-line playback summary.
func (s *Session) MediaStatus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player.StatusLine()
}

// ---- settings ----

// SaveSettings persists the current settings snapshot to the default
// location.
func (s *Session) SaveSettings() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(s.collectLocked())
}

// LoadUserPreferences reads the persisted settings and applies them. A
// missing document is reported with the NotFound kind and leaves the
// defaults in place.
func (s *Session) LoadUserPreferences() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.store.Load()
	if err != nil {
		return err
	}
	s.applyLocked(doc)
	return nil
}

// ExportSettings writes the current settings snapshot to an explicit
// path.
func (s *Session) ExportSettings(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ExportTo(path, s.collectLocked())
}

// ImportSettings reads a settings document from an explicit path and
// applies it.
func (s *Session) ImportSettings(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.store.ImportFrom(path)
	if err != nil {
		return err
	}
	s.applyLocked(doc)
	return nil
}

// WatchCurrentDir starts (or stops) following the current directory for
// external changes. While enabled, change bursts mark the listing stale
// and the next ListFiles re-derives it.
func (s *Session) WatchCurrentDir(enable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !enable {
		if s.watcher != nil {
			err := s.watcher.Close()
			<-s.watchDone
			s.watcher = nil
			return err
		}
		return nil
	}
	if s.watcher != nil {
		return nil
	}
	w, err := watch.New(watch.DefaultDebounce)
	if err != nil {
		return err
	}
	if err := w.Watch(s.ws.CurrentDir()); err != nil {
		w.Close()
		return err
	}
	s.watcher = w
	s.watchDone = make(chan struct{})
	go func(changes <-chan string, done chan struct{}) {
		defer close(done)
		for range changes {
			s.stale.Store(true)
		}
	}(w.Changes(), s.watchDone)
	return nil
}

// ---- internals ----

// childPathLocked validates name as a direct child of the current
// directory.
func (s *Session) childPathLocked(name string) (string, error) {
	if name == "" {
		return "", errors.New(errors.InvalidArgument, "name must not be empty")
	}
	if strings.ContainsRune(name, os.PathSeparator) || name == "." || name == ".." {
		return "", errors.Newf(errors.InvalidArgument, "invalid name %q", name)
	}
	return filepath.Join(s.ws.CurrentDir(), name), nil
}

func (s *Session) refreshSelectLocked(path string) error {
	if err := s.ws.Refresh(); err != nil {
		return err
	}
	s.ws.SelectPath(path)
	return nil
}

// rewatchLocked points the watcher at the new current directory.
func (s *Session) rewatchLocked() {
	s.stale.Store(false)
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Watch(s.ws.CurrentDir()); err != nil {
		log.Warn("cannot watch %s: %v", s.ws.CurrentDir(), err)
	}
}

// collectLocked builds the persisted snapshot from live subsystems.
func (s *Session) collectLocked() *settings.Document {
	doc := settings.NewDocument()
	if s.settingsID != "" {
		doc.SettingsID = s.settingsID
	} else {
		s.settingsID = doc.SettingsID
	}
	doc.Theme = s.themes.ActiveName()
	doc.ShowHidden = s.ws.ShowHidden()
	doc.Bookmarks = s.marks.List()
	for _, p := range s.plugins.List() {
		doc.Plugins[p.ID] = p.Enabled
	}
	for id, enabled := range s.pluginPrefs {
		if _, known := doc.Plugins[id]; !known {
			doc.Plugins[id] = enabled
		}
	}
	doc.Player = s.player.Prefs()
	return doc
}

// applyLocked pushes a loaded document into the live subsystems.
// Transient state (directory, selection, search, playback position) is
// untouched.
func (s *Session) applyLocked(doc *settings.Document) {
	s.settingsID = doc.SettingsID
	if err := s.themes.Switch(doc.Theme); err != nil {
		log.Warn("saved theme %q unavailable, keeping %q", doc.Theme, s.themes.ActiveName())
	}
	s.marks.Replace(doc.Bookmarks)
	s.player.ApplyPrefs(doc.Player)
	if doc.ShowHidden != s.ws.ShowHidden() {
		if err := s.ws.ToggleHidden(); err != nil {
			log.Warn("cannot apply hidden-file preference: %v", err)
		}
	}
	s.pluginPrefs = make(map[string]bool, len(doc.Plugins))
	for id, enabled := range doc.Plugins {
		s.pluginPrefs[id] = enabled
	}
	// Plugins already discovered get their enablement reconciled now.
	for _, p := range s.plugins.List() {
		want := s.pluginPrefs[p.ID]
		var err error
		switch {
		case want && !p.Enabled:
			err = s.plugins.Enable(p.ID)
		case !want && p.Enabled:
			err = s.plugins.Disable(p.ID)
		}
		if err != nil {
			log.Warn("cannot reconcile plugin %s: %v", p.ID, err)
		}
	}
}
