// Package plugin discovers YAML plugin manifests and applies their
// declared capabilities through registries. Disable revokes exactly
// what enable applied, so the pair is a reversible inverse.
package plugin

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"astrofs/internal/errors"
	"astrofs/internal/log"
	"astrofs/internal/search"
	"astrofs/internal/theme"
	"astrofs/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk plugin description.
type Manifest struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Version      string       `yaml:"version"`
	Description  string       `yaml:"description"`
	Capabilities Capabilities `yaml:"capabilities"`
}

// Capabilities are the features a plugin contributes when enabled.
type Capabilities struct {
	Themes        []ThemeCapability  `yaml:"themes"`
	Commands      []Command          `yaml:"commands"`
	SearchFilters []SearchFilterSpec `yaml:"search_filters"`
}

// ThemeCapability declares a theme by name and color map.
type ThemeCapability struct {
	Name   string            `yaml:"name"`
	Colors map[string]string `yaml:"colors"`
}

// Command is a named action a plugin contributes.
type Command struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Exec        string `yaml:"exec"`
}

// SearchFilterSpec declares extensions a plugin hides from search
// results while enabled.
type SearchFilterSpec struct {
	Exclude []string `yaml:"exclude"`
}

// ThemeRegistry is where enabled plugins contribute themes.
type ThemeRegistry interface {
	Register(name string, p theme.Palette) error
	Unregister(name string) error
}

// FilterRegistry is where enabled plugins contribute search filters.
type FilterRegistry interface {
	RegisterFilter(id string, fn search.FilterFunc)
	UnregisterFilter(id string)
}

// applied records what an enable call contributed, for exact revocation.
type applied struct {
	themes   []string
	filterID string
	commands []string
}

// Manager owns discovered plugins and their enablement state.
type Manager struct {
	dir      string
	themes   ThemeRegistry
	filters  FilterRegistry
	plugins  map[string]Manifest
	order    []string
	enabled  map[string]applied
	commands map[string]Command
}

// NewManager creates a plugin manager over dir, contributing to the
// given registries.
func NewManager(dir string, themes ThemeRegistry, filters FilterRegistry) *Manager {
	return &Manager{
		dir:      dir,
		themes:   themes,
		filters:  filters,
		plugins:  make(map[string]Manifest),
		enabled:  make(map[string]applied),
		commands: make(map[string]Command),
	}
}

// Load discovers *.yaml manifests in the plugin directory. A missing or
// empty directory yields a NoPluginsFound error, which callers treat as
// recoverable. Reloading keeps enablement for plugins that still exist.
func (m *Manager) Load() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.PathError(errors.NoPluginsFound, "plugin directory does not exist", m.dir)
		}
		return errors.FromOS(m.dir, err)
	}

	found := make(map[string]Manifest)
	var order []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(m.dir, e.Name())
		manifest, err := readManifest(path)
		if err != nil {
			log.Warn("skipping plugin manifest %s: %v", path, err)
			continue
		}
		if _, dup := found[manifest.ID]; dup {
			log.Warn("duplicate plugin id %q in %s, keeping first", manifest.ID, path)
			continue
		}
		found[manifest.ID] = manifest
		order = append(order, manifest.ID)
	}
	sort.Strings(order)

	// Plugins that vanished are disabled so their capabilities revoke.
	for id := range m.enabled {
		if _, ok := found[id]; !ok {
			m.revoke(id)
		}
	}

	m.plugins = found
	m.order = order
	if len(found) == 0 {
		return errors.PathError(errors.NoPluginsFound, "no plugin manifests found", m.dir)
	}
	log.Info("loaded %d plugin(s) from %s", len(found), m.dir)
	return nil
}

func readManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errors.FromOS(path, err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, errors.WrapPath(errors.CorruptData, err, "malformed plugin manifest", path)
	}
	if manifest.ID == "" {
		return Manifest{}, errors.PathError(errors.CorruptData, "plugin manifest missing id", path)
	}
	if manifest.Name == "" {
		manifest.Name = manifest.ID
	}
	return manifest, nil
}

// Enable applies the plugin's capabilities. Enabling an already enabled
// plugin is a no-op.
func (m *Manager) Enable(id string) error {
	manifest, ok := m.plugins[id]
	if !ok {
		return errors.Newf(errors.NotFound, "no plugin with id %q", id)
	}
	if _, on := m.enabled[id]; on {
		return nil
	}

	var a applied
	for _, tc := range manifest.Capabilities.Themes {
		if tc.Name == "" {
			continue
		}
		if err := m.themes.Register(tc.Name, paletteFromColors(tc.Colors)); err != nil {
			log.Warn("plugin %s: theme %q not registered: %v", id, tc.Name, err)
			continue
		}
		a.themes = append(a.themes, tc.Name)
	}

	if excluded := excludedExtensions(manifest.Capabilities.SearchFilters); len(excluded) > 0 {
		a.filterID = "plugin:" + id
		m.filters.RegisterFilter(a.filterID, excludeFilter(excluded))
	}

	for _, c := range manifest.Capabilities.Commands {
		if c.Name == "" {
			continue
		}
		if _, taken := m.commands[c.Name]; taken {
			log.Warn("plugin %s: command %q already registered", id, c.Name)
			continue
		}
		m.commands[c.Name] = c
		a.commands = append(a.commands, c.Name)
	}

	m.enabled[id] = a
	log.Info("enabled plugin %s", id)
	return nil
}

// Disable revokes the plugin's capabilities. Disabling a plugin that is
// not enabled is a no-op.
func (m *Manager) Disable(id string) error {
	if _, ok := m.plugins[id]; !ok {
		return errors.Newf(errors.NotFound, "no plugin with id %q", id)
	}
	m.revoke(id)
	return nil
}

func (m *Manager) revoke(id string) {
	a, on := m.enabled[id]
	if !on {
		return
	}
	for _, name := range a.themes {
		if err := m.themes.Unregister(name); err != nil {
			log.Warn("plugin %s: theme %q not revoked: %v", id, name, err)
		}
	}
	if a.filterID != "" {
		m.filters.UnregisterFilter(a.filterID)
	}
	for _, name := range a.commands {
		delete(m.commands, name)
	}
	delete(m.enabled, id)
	log.Info("disabled plugin %s", id)
}

// List returns plugin infos sorted by id.
func (m *Manager) List() []types.PluginInfo {
	out := make([]types.PluginInfo, 0, len(m.order))
	for _, id := range m.order {
		p := m.plugins[id]
		_, on := m.enabled[id]
		out = append(out, types.PluginInfo{
			ID:          p.ID,
			Name:        p.Name,
			Version:     p.Version,
			Description: p.Description,
			Enabled:     on,
		})
	}
	return out
}

// IsEnabled reports whether the plugin is currently enabled.
func (m *Manager) IsEnabled(id string) bool {
	_, on := m.enabled[id]
	return on
}

// Commands returns enabled plugin commands sorted by name.
func (m *Manager) Commands() []Command {
	out := make([]Command, 0, len(m.commands))
	for _, c := range m.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EnabledIDs returns enabled plugin ids sorted, for persistence.
func (m *Manager) EnabledIDs() []string {
	ids := make([]string, 0, len(m.enabled))
	for id := range m.enabled {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func paletteFromColors(colors map[string]string) theme.Palette {
	get := func(key, fallback string) lipgloss.Color {
		if v, ok := colors[key]; ok && v != "" {
			return lipgloss.Color(v)
		}
		return lipgloss.Color(fallback)
	}
	return theme.Palette{
		Background: get("background", "#1e1e2e"),
		Foreground: get("foreground", "#cdd6f4"),
		Accent:     get("accent", "#89b4fa"),
		Selection:  get("selection", "#45475a"),
		Directory:  get("directory", "#89b4fa"),
		Hidden:     get("hidden", "#6c7086"),
		Error:      get("error", "#f38ba8"),
	}
}

func excludedExtensions(specs []SearchFilterSpec) map[string]bool {
	out := make(map[string]bool)
	for _, s := range specs {
		for _, ext := range s.Exclude {
			ext = strings.ToLower(ext)
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if ext != "" {
				out[ext] = true
			}
		}
	}
	return out
}

func excludeFilter(excluded map[string]bool) search.FilterFunc {
	return func(_ string, results []types.Entry) []types.Entry {
		out := results[:0]
		for _, r := range results {
			if r.IsDir || !excluded[r.Ext()] {
				out = append(out, r)
			}
		}
		return out
	}
}
