package types

// DefaultBookmarkIcon is used when a bookmark is added without an
// explicit icon.
const DefaultBookmarkIcon = "🔖"

// Bookmark is a named shortcut to a directory path. The name is the
// unique key; the icon is display metadata only.
type Bookmark struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Icon string `yaml:"icon"`
}
