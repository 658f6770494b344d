package types

import (
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// Entry represents a single filesystem object (file or directory).
// Entries are immutable once produced; the catalog regenerates them on
// every directory read.
type Entry struct {
	Path   string `json:"path"` // Absolute, cleaned location
	Name   string `json:"name"` // Final path component
	IsDir  bool   `json:"is_dir"`
	Size   int64  `json:"size"`
	Hidden bool   `json:"hidden"`
}

// SizeFormatted returns a human-readable size, or a directory marker.
func (e Entry) SizeFormatted() string {
	if e.IsDir {
		return "<DIR>"
	}
	return humanize.IBytes(uint64(e.Size))
}

// Ext returns the lowercase file extension including the dot, or "".
func (e Entry) Ext() string {
	if e.IsDir {
		return ""
	}
	return strings.ToLower(filepath.Ext(e.Name))
}
