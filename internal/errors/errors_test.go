package errors_test

import (
	"io/fs"
	"os"
	"testing"

	"astrofs/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRoundTrip(t *testing.T) {
	err := errors.PathError(errors.NotFound, "bookmark not bound", "/tmp/x")
	assert.True(t, errors.IsNotFound(err))
	assert.False(t, errors.IsAlreadyExists(err))
	assert.Equal(t, errors.NotFound, errors.KindOf(err))
	assert.Contains(t, err.Error(), "/tmp/x")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := os.ErrPermission
	err := errors.Wrap(errors.PermissionDenied, cause, "cannot write settings")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.True(t, errors.IsPermissionDenied(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(errors.IOError, nil, "noop"))
	assert.Nil(t, errors.FromOS("/p", nil))
}

func TestFromOSMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errors.Kind
	}{
		{"not exist", fs.ErrNotExist, errors.NotFound},
		{"exist", fs.ErrExist, errors.AlreadyExists},
		{"permission", fs.ErrPermission, errors.PermissionDenied},
		{"other", assert.AnError, errors.IOError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := errors.FromOS("/some/path", tt.err)
			assert.Equal(t, tt.kind, errors.KindOf(mapped))

			var e *errors.Error
			require.True(t, errors.As(mapped, &e))
			assert.Equal(t, "/some/path", e.Path())
		})
	}
}

func TestForeignErrorIsUnknown(t *testing.T) {
	assert.Equal(t, errors.Unknown, errors.KindOf(assert.AnError))
	assert.False(t, errors.IsNotFound(assert.AnError))
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "not found", errors.NotFound.String())
	assert.Equal(t, "no plugins found", errors.NoPluginsFound.String())
	assert.Equal(t, "unknown", errors.Unknown.String())
}
