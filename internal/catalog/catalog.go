// Package catalog enumerates and describes filesystem entries for a
// directory. It is the leaf utility every navigation and search
// component reads through.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"astrofs/internal/errors"
	"astrofs/pkg/types"
)

// Describe produces an Entry for a single path. The entry's path is
// absolute and cleaned; the name is the final path component.
func Describe(path string) (types.Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.Entry{}, errors.FromOS(path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return types.Entry{}, errors.FromOS(abs, err)
	}
	name := filepath.Base(abs)
	return types.Entry{
		Path:   abs,
		Name:   name,
		IsDir:  info.IsDir(),
		Size:   info.Size(),
		Hidden: IsHiddenName(name),
	}, nil
}

// List returns the entries of dir, filtered by showHidden and sorted
// directories-first, then case-insensitively by name. The listing is
// re-derived from the filesystem on every call.
func List(dir string, showHidden bool) ([]types.Entry, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.FromOS(dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.FromOS(abs, err)
	}
	if !info.IsDir() {
		return nil, errors.PathError(errors.NotADirectory, "cannot list a file", abs)
	}

	dirEntries, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.FromOS(abs, err)
	}

	entries := make([]types.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		hidden := IsHiddenName(name)
		if hidden && !showHidden {
			continue
		}
		// Entries that disappear mid-listing are skipped, not fatal.
		fi, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, types.Entry{
			Path:   filepath.Join(abs, name),
			Name:   name,
			IsDir:  de.IsDir(),
			Size:   fi.Size(),
			Hidden: hidden,
		})
	}

	Sort(entries)
	return entries, nil
}

// Sort orders entries directories-first, then case-insensitively by name.
func Sort(entries []types.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// IsHiddenName reports whether a file name counts as hidden (dotfile).
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}
