// Package theme manages named visual themes. A theme is a palette plus
// derived lipgloss styles for the surfaces the UI layer renders.
package theme

import (
	"sort"

	"astrofs/internal/errors"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the raw color set a theme is built from.
type Palette struct {
	Background lipgloss.Color `yaml:"background"`
	Foreground lipgloss.Color `yaml:"foreground"`
	Accent     lipgloss.Color `yaml:"accent"`
	Selection  lipgloss.Color `yaml:"selection"`
	Directory  lipgloss.Color `yaml:"directory"`
	Hidden     lipgloss.Color `yaml:"hidden"`
	Error      lipgloss.Color `yaml:"error"`
}

// Theme is a named palette with its derived styles.
type Theme struct {
	Name    string
	Palette Palette
	Styles  Styles
}

// Styles are the pre-derived lipgloss styles for rendering.
type Styles struct {
	Base      lipgloss.Style
	Entry     lipgloss.Style
	Directory lipgloss.Style
	Hidden    lipgloss.Style
	Selected  lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
}

// DefaultName is the theme active on startup and the fallback when the
// active theme is unregistered.
const DefaultName = "default"

func derive(p Palette) Styles {
	base := lipgloss.NewStyle().Foreground(p.Foreground).Background(p.Background)
	return Styles{
		Base:      base,
		Entry:     base,
		Directory: base.Foreground(p.Directory).Bold(true),
		Hidden:    base.Foreground(p.Hidden).Faint(true),
		Selected:  base.Background(p.Selection).Bold(true),
		Status:    base.Foreground(p.Accent),
		Error:     base.Foreground(p.Error).Bold(true),
	}
}

func builtins() map[string]Theme {
	palettes := map[string]Palette{
		DefaultName: {
			Background: "#1e1e2e", Foreground: "#cdd6f4", Accent: "#89b4fa",
			Selection: "#45475a", Directory: "#89b4fa", Hidden: "#6c7086", Error: "#f38ba8",
		},
		"dark": {
			Background: "#121212", Foreground: "#e0e0e0", Accent: "#bb86fc",
			Selection: "#333333", Directory: "#82aaff", Hidden: "#5c5c5c", Error: "#cf6679",
		},
		"light": {
			Background: "#fafafa", Foreground: "#2e2e2e", Accent: "#1a73e8",
			Selection: "#d0d7de", Directory: "#0550ae", Hidden: "#8c959f", Error: "#cf222e",
		},
		"astro": {
			Background: "#0b0e1a", Foreground: "#d7e3ff", Accent: "#ffb347",
			Selection: "#1f2947", Directory: "#7aa2f7", Hidden: "#414868", Error: "#ff5370",
		},
	}
	out := make(map[string]Theme, len(palettes))
	for name, p := range palettes {
		out[name] = Theme{Name: name, Palette: p, Styles: derive(p)}
	}
	return out
}

// Manager tracks registered themes and the active one.
type Manager struct {
	themes map[string]Theme
	active string
}

// NewManager creates a manager with the built-in themes registered and
// the default theme active.
func NewManager() *Manager {
	return &Manager{themes: builtins(), active: DefaultName}
}

// List returns registered theme names, sorted.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.themes))
	for n := range m.themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Switch makes the named theme active. On failure the active theme is
// unchanged.
func (m *Manager) Switch(name string) error {
	if _, ok := m.themes[name]; !ok {
		return errors.Newf(errors.NotFound, "no theme named %q", name)
	}
	m.active = name
	return nil
}

// Active returns the currently active theme.
func (m *Manager) Active() Theme {
	return m.themes[m.active]
}

// ActiveName returns the active theme's name.
func (m *Manager) ActiveName() string {
	return m.active
}

// Register adds a theme under its name, deriving styles from its
// palette. A name already taken, built-in or registered, is refused:
// whoever registered a name owns it until Unregister.
func (m *Manager) Register(name string, p Palette) error {
	if name == "" {
		return errors.New(errors.InvalidArgument, "theme name must not be empty")
	}
	if _, taken := m.themes[name]; taken {
		return errors.Newf(errors.AlreadyExists, "theme %q already registered", name)
	}
	m.themes[name] = Theme{Name: name, Palette: p, Styles: derive(p)}
	return nil
}

// Unregister removes a registered theme. Built-in themes cannot be
// removed. If the removed theme was active, the default theme becomes
// active.
func (m *Manager) Unregister(name string) error {
	if _, builtin := builtins()[name]; builtin {
		return errors.Newf(errors.InvalidArgument, "theme %q is built in", name)
	}
	if _, ok := m.themes[name]; !ok {
		return errors.Newf(errors.NotFound, "no theme named %q", name)
	}
	delete(m.themes, name)
	if m.active == name {
		m.active = DefaultName
	}
	return nil
}
