package types

// PluginInfo describes a loaded plugin. Enabled is toggled independently
// of load/unload.
type PluginInfo struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Enabled     bool   `yaml:"enabled"`
}
