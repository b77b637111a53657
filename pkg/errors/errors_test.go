package errors_test

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/agentstation/refimport/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "descriptor",
			ID:       "App.csproj",
		}
		assert.Equal(t, "descriptor App.csproj not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("directory", "/tmp/libs")
		assert.Equal(t, "directory /tmp/libs not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped in io error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("directory", "libs")
		wrapped := pkgerrors.WrapIO("stat", "libs", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
		assert.True(t, pkgerrors.IsIOError(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "descriptor",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field descriptor: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid request",
		}
		assert.Equal(t, "validation failed: invalid request", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("pattern", "[", "syntax error in pattern")
		assert.Contains(t, err.Error(), "pattern")
		assert.Contains(t, err.Error(), "syntax error")
		assert.Equal(t, "[", err.Value)
	})
}

func TestConfigError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ConfigError{
			Component: "viper",
			Message:   "format: unsupported value",
		}
		assert.Contains(t, err.Error(), "viper")
		assert.Contains(t, err.Error(), "unsupported value")
	})

	t.Run("constructor unwraps", func(t *testing.T) {
		base := errors.New("bad yaml")
		err := pkgerrors.NewConfigError("config file", "cannot read", base)
		assert.Contains(t, err.Error(), "config file")
		assert.Equal(t, base, err.Unwrap())
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and position", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "xml",
			File:    "App.csproj",
			Line:    10,
			Column:  5,
			Message: "unexpected EOF",
		}
		assert.Contains(t, err.Error(), "App.csproj")
		assert.Contains(t, err.Error(), "10:5")
	})

	t.Run("with file only", func(t *testing.T) {
		err := pkgerrors.NewParseError("pe", "Foo.dll", "not a PE image", nil)
		assert.Equal(t, "parse error in pe file Foo.dll: not a PE image", err.Error())
	})

	t.Run("format only", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "yaml", Message: "syntax error"}
		assert.Equal(t, "yaml parse error: syntax error", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		base := errors.New("EOF")
		wrapped := pkgerrors.WrapParse("xml", "App.csproj", base)
		parseErr, ok := wrapped.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "xml", parseErr.Format)
		assert.Equal(t, base, parseErr.Unwrap())
		assert.Nil(t, pkgerrors.WrapParse("xml", "x", nil))
	})
}

func TestDescriptorLoadError(t *testing.T) {
	base := errors.New("XML syntax error on line 1")
	err := pkgerrors.NewDescriptorLoadError("App.csproj", base)

	assert.Contains(t, err.Error(), "App.csproj")
	assert.Contains(t, err.Error(), "line 1")
	assert.True(t, pkgerrors.IsDescriptorLoad(err))
	assert.Equal(t, base, err.Unwrap())
	assert.False(t, pkgerrors.IsIOError(err))

	assert.Nil(t, pkgerrors.WrapDescriptorLoad("App.csproj", nil))
	assert.True(t, pkgerrors.IsDescriptorLoad(pkgerrors.WrapDescriptorLoad("App.csproj", base)))
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "list",
			Path:      "/tmp/libs",
			Message:   "permission denied",
		}
		assert.Equal(t, "IO error during list of /tmp/libs: permission denied", err.Error())
	})

	t.Run("without path", func(t *testing.T) {
		err := &pkgerrors.IOError{Operation: "write", Message: "disk full"}
		assert.Equal(t, "IO error during write: disk full", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		base := errors.New("disk full")
		err := pkgerrors.WrapIO("write", "App.csproj", base)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "write", ioErr.Operation)
		assert.Equal(t, "App.csproj", ioErr.Path)
		assert.Equal(t, base, ioErr.Unwrap())
		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})
}

func TestWrapCanceled(t *testing.T) {
	err := pkgerrors.WrapCanceled("reconcile", context.Canceled)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCanceled(err))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Contains(t, err.Error(), "reconcile")

	assert.Nil(t, pkgerrors.WrapCanceled("reconcile", nil))
}

func TestWrapValidation(t *testing.T) {
	err := pkgerrors.WrapValidation("dir", errors.New("must not be empty"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidationError(err))
	assert.Nil(t, pkgerrors.WrapValidation("dir", nil))
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", pkgerrors.ErrNotFound},
		{"ErrInvalidInput", pkgerrors.ErrInvalidInput},
		{"ErrCanceled", pkgerrors.ErrCanceled},
		{"ErrDescriptorLoad", pkgerrors.ErrDescriptorLoad},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotNil(t, tc.err)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}
