package fileops_test

import (
	"os"
	"path/filepath"
	"testing"

	"astrofs/internal/errors"
	"astrofs/internal/fileops"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")

	require.NoError(t, fileops.CreateFile(path))
	assert.FileExists(t, path)

	err := fileops.CreateFile(path)
	assert.True(t, errors.IsAlreadyExists(err))
}

// Every failure out of this package carries a kind callers can branch
// on; a raw os error is a defect.
func TestErrorsCarryKinds(t *testing.T) {
	dir := t.TempDir()

	err := fileops.CreateFile(filepath.Join(dir, "missing", "new.txt"))
	require.Error(t, err)
	assert.NotEqual(t, errors.Unknown, errors.KindOf(err))

	_, err = fileops.Rename(filepath.Join(dir, "ghost.txt"), "other.txt")
	require.Error(t, err)
	assert.NotEqual(t, errors.Unknown, errors.KindOf(err))

	_, err = fileops.Duplicate(filepath.Join(dir, "ghost.txt"))
	require.Error(t, err)
	assert.NotEqual(t, errors.Unknown, errors.KindOf(err))
}

func TestCreateDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub")

	require.NoError(t, fileops.CreateDir(path))
	assert.DirExists(t, path)

	err := fileops.CreateDir(path)
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	require.NoError(t, fileops.Delete(file))
	assert.NoFileExists(t, file)

	sub := filepath.Join(dir, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "nested", "deep.txt"), []byte("y"), 0644))
	require.NoError(t, fileops.Delete(sub))
	assert.NoDirExists(t, sub)

	err := fileops.Delete(filepath.Join(dir, "missing"))
	assert.True(t, errors.IsNotFound(err))
}

func TestRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	dest, err := fileops.Rename(src, "new.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "new.txt"), dest)
	assert.FileExists(t, dest)
	assert.NoFileExists(t, src)

	t.Run("rejects path separators", func(t *testing.T) {
		_, err := fileops.Rename(dest, "a/b.txt")
		assert.True(t, errors.IsInvalidArgument(err))
	})

	t.Run("rejects existing destination", func(t *testing.T) {
		other := filepath.Join(dir, "other.txt")
		require.NoError(t, os.WriteFile(other, []byte("y"), 0644))
		_, err := fileops.Rename(other, "new.txt")
		assert.True(t, errors.IsAlreadyExists(err))
	})
}

func TestDuplicateFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	first, err := fileops.Duplicate(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "doc copy.txt"), first)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	second, err := fileops.Duplicate(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "doc copy 2.txt"), second)
}

func TestDuplicateDirectoryRecursive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("b"), 0644))

	dest, err := fileops.Duplicate(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "project copy"), dest)
	assert.FileExists(t, filepath.Join(dest, "a.txt"))
	assert.FileExists(t, filepath.Join(dest, "sub", "b.txt"))

	data, err := os.ReadFile(filepath.Join(dest, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "m.txt")
	require.NoError(t, os.WriteFile(src, []byte("m"), 0644))

	dest := filepath.Join(dir, "into", "m.txt")
	require.NoError(t, fileops.Move(src, dest))
	assert.FileExists(t, dest)
	assert.NoFileExists(t, src)
}
