// Package fileops implements the single-path filesystem mutations the
// workspace exposes. Each operation affects exactly one path tree and
// reports its own success or failure; there are no retries and no
// multi-path transactions.
package fileops

import (
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"astrofs/internal/errors"
	"astrofs/internal/log"

	"github.com/charlievieth/fastwalk"
)

// CreateFile creates an empty file at path. Fails with AlreadyExists if
// anything is already there.
func CreateFile(path string) error {
	if _, err := os.Lstat(path); err == nil {
		return errors.PathError(errors.AlreadyExists, "file already exists", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return errors.FromOS(path, err)
	}
	if err := f.Close(); err != nil {
		return errors.FromOS(path, err)
	}
	return nil
}

// CreateDir creates a directory at path. Fails with AlreadyExists if
// anything is already there.
func CreateDir(path string) error {
	if _, err := os.Lstat(path); err == nil {
		return errors.PathError(errors.AlreadyExists, "directory already exists", path)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		return errors.FromOS(path, err)
	}
	return nil
}

// Delete removes a file, or a directory recursively.
func Delete(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.FromOS(path, err)
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return errors.FromOS(path, err)
	}
	log.Debug("deleted %s", path)
	return nil
}

// Rename renames src (file or directory) to newName within its parent
// directory and returns the new path.
func Rename(src, newName string) (string, error) {
	if newName == "" || newName != filepath.Base(newName) {
		return "", errors.Newf(errors.InvalidArgument, "invalid name %q", newName)
	}
	if _, err := os.Lstat(src); err != nil {
		return "", errors.FromOS(src, err)
	}
	dest := filepath.Join(filepath.Dir(src), newName)
	if _, err := os.Lstat(dest); err == nil {
		return "", errors.PathError(errors.AlreadyExists, "destination already exists", dest)
	}
	if err := os.Rename(src, dest); err != nil {
		return "", errors.FromOS(src, err)
	}
	return dest, nil
}

// Move relocates src to dest, creating dest's parent if needed.
func Move(src, dest string) error {
	if _, err := os.Lstat(src); err != nil {
		return errors.FromOS(src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.FromOS(dest, err)
	}
	if err := os.Rename(src, dest); err != nil {
		return errors.FromOS(src, err)
	}
	log.Debug("moved %s -> %s", src, dest)
	return nil
}

// Duplicate copies src next to itself under a "name copy" style name and
// returns the new path. Directories are copied recursively.
func Duplicate(src string) (string, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return "", errors.FromOS(src, err)
	}

	dest, err := copyName(src)
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		if err := copyTree(src, dest); err != nil {
			return "", err
		}
	} else {
		if err := copyFile(src, dest, info.Mode()); err != nil {
			return "", err
		}
	}
	log.Debug("duplicated %s -> %s", src, dest)
	return dest, nil
}

// copyName picks an unused "name copy"/"name copy N" sibling path,
// keeping the extension for files.
func copyName(src string) (string, error) {
	dir := filepath.Dir(src)
	ext := filepath.Ext(src)
	base := filepath.Base(src)
	stem := base[:len(base)-len(ext)]

	for counter := 1; counter <= 1000; counter++ {
		name := stem + " copy" + ext
		if counter > 1 {
			name = fmt.Sprintf("%s copy %d%s", stem, counter, ext)
		}
		candidate := filepath.Join(dir, name)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", errors.PathError(errors.AlreadyExists, "no free duplicate name after 1000 attempts", src)
}

func copyFile(src, dest string, mode iofs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.FromOS(src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode.Perm())
	if err != nil {
		return errors.FromOS(dest, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return errors.WrapPath(errors.IOError, err, "copy failed", dest)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return errors.FromOS(dest, err)
	}
	return nil
}

// copyTree recursively copies the directory at src to dest. The walk
// collects paths first, then copies in path order so parents always
// exist before their children.
func copyTree(src, dest string) error {
	type item struct {
		rel   string
		isDir bool
		mode  iofs.FileMode
	}

	var (
		mu    sync.Mutex
		items []item
	)
	conf := &fastwalk.Config{Follow: false}
	err := fastwalk.Walk(conf, src, func(path string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		info, err := fastwalk.StatDirEntry(path, d)
		if err != nil {
			return err
		}
		mu.Lock()
		items = append(items, item{rel: rel, isDir: d.IsDir(), mode: info.Mode()})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return errors.WrapPath(errors.IOError, err, "walk failed", src)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].rel < items[j].rel })

	for _, it := range items {
		target := filepath.Join(dest, it.rel)
		if it.isDir {
			if err := os.MkdirAll(target, it.mode.Perm()); err != nil {
				return errors.FromOS(target, err)
			}
			continue
		}
		if err := copyFile(filepath.Join(src, it.rel), target, it.mode); err != nil {
			return err
		}
	}
	return nil
}
