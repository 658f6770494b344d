package bookmarks_test

import (
	"testing"

	"astrofs/internal/bookmarks"
	"astrofs/internal/errors"
	"astrofs/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndGet(t *testing.T) {
	m := bookmarks.New()

	require.NoError(t, m.Add(types.Bookmark{Name: "home", Path: "/home/user"}))

	b, err := m.Get("home")
	require.NoError(t, err)
	assert.Equal(t, "/home/user", b.Path)
	assert.Equal(t, types.DefaultBookmarkIcon, b.Icon, "missing icon gets the default")
}

func TestAddDuplicateFails(t *testing.T) {
	m := bookmarks.New()

	require.NoError(t, m.Add(types.Bookmark{Name: "home", Path: "/home/user"}))
	err := m.Add(types.Bookmark{Name: "home", Path: "/elsewhere"})
	assert.True(t, errors.IsAlreadyExists(err))

	// The original bookmark is untouched.
	b, err := m.Get("home")
	require.NoError(t, err)
	assert.Equal(t, "/home/user", b.Path)
}

func TestAddValidation(t *testing.T) {
	m := bookmarks.New()

	assert.True(t, errors.IsInvalidArgument(m.Add(types.Bookmark{Path: "/x"})))
	assert.True(t, errors.IsInvalidArgument(m.Add(types.Bookmark{Name: "x"})))
}

func TestRemove(t *testing.T) {
	m := bookmarks.New()
	require.NoError(t, m.Add(types.Bookmark{Name: "a", Path: "/a"}))

	require.NoError(t, m.Remove("a"))
	_, err := m.Get("a")
	assert.True(t, errors.IsNotFound(err))

	assert.True(t, errors.IsNotFound(m.Remove("a")))
}

func TestListInsertionOrder(t *testing.T) {
	m := bookmarks.New()
	for _, n := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, m.Add(types.Bookmark{Name: n, Path: "/" + n}))
	}
	require.NoError(t, m.Remove("alpha"))
	require.NoError(t, m.Add(types.Bookmark{Name: "last", Path: "/last"}))

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, "zeta", list[0].Name)
	assert.Equal(t, "mid", list[1].Name)
	assert.Equal(t, "last", list[2].Name)
}

func TestUpdate(t *testing.T) {
	m := bookmarks.New()
	require.NoError(t, m.Add(types.Bookmark{Name: "a", Path: "/a"}))
	require.NoError(t, m.Add(types.Bookmark{Name: "b", Path: "/b"}))

	require.NoError(t, m.Update(types.Bookmark{Name: "a", Path: "/moved", Icon: "📁"}))

	list := m.List()
	assert.Equal(t, "a", list[0].Name, "update keeps position")
	assert.Equal(t, "/moved", list[0].Path)
	assert.Equal(t, "📁", list[0].Icon)

	assert.True(t, errors.IsNotFound(m.Update(types.Bookmark{Name: "nope", Path: "/x"})))
}

func TestReplace(t *testing.T) {
	m := bookmarks.New()
	require.NoError(t, m.Add(types.Bookmark{Name: "old", Path: "/old"}))

	m.Replace([]types.Bookmark{
		{Name: "one", Path: "/1"},
		{Name: "", Path: "/skip"},
		{Name: "one", Path: "/dup"},
		{Name: "two", Path: "/2"},
	})

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "one", list[0].Name)
	assert.Equal(t, "/1", list[0].Path)
	assert.Equal(t, "two", list[1].Name)
	assert.Equal(t, 2, m.Len())
}
