package logging_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/refimport/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.DebugLevel))

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Err(errors.New("boom")).Msg("error message")

	assert.Contains(t, buf.String(), "info message")
	assert.Contains(t, buf.String(), "boom")
}

func TestContextLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithDescriptor(ctx, "App.csproj")
	ctx = logging.WithDirectory(ctx, "libs")
	ctx = logging.WithCandidate(ctx, "libs/Foo.dll")
	ctx = logging.WithOperation(ctx, "reconcile")

	logging.FromContext(ctx).Info().Msg("validating")

	tl.AssertContains(t, `"descriptor":"App.csproj"`)
	tl.AssertContains(t, `"directory":"libs"`)
	tl.AssertContains(t, `"candidate":"libs/Foo.dll"`)
	tl.AssertContains(t, `"operation":"reconcile"`)
	assert.Len(t, tl.Lines(), 1)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is tolerated on purpose
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.Ctx(logging.WithLogger(context.Background(), nil)))
}

func TestWithFieldsAndError(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	ctx = logging.WithFields(ctx, map[string]any{
		"added":   2,
		"dry_run": true,
		"names":   []string{"Foo", "Bar"},
	})
	ctx = logging.WithError(ctx, errors.New("bad header"))
	assert.Equal(t, ctx, logging.WithError(ctx, nil))

	logging.FromContext(ctx).Warn().Msg("done")

	tl.AssertContains(t, `"added":2`)
	tl.AssertContains(t, `"dry_run":true`)
	tl.AssertContains(t, `"names":["Foo","Bar"]`)
	tl.AssertContains(t, `"error":"bad header"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, logging.ParseLevel(tc.in))
		})
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	original := *logging.Default()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(originalLevel)
		logging.SetDefault(original)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.False(t, cfg.AddCaller)
	})

	t.Run("writes json to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "refimport.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
			Fields: map[string]any{"app": "refimport"},
		})
		logger.Info().Msg("test message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "test message")
		assert.Contains(t, string(content), `"app":"refimport"`)
	})

	t.Run("configure filters below level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "warn.log")
		logging.Configure(&logging.Config{Level: "warn", Format: "json", Output: path})

		logging.Info().Msg("hidden message")
		logging.Warn().Msg("visible message")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "hidden message")
		assert.Contains(t, string(content), "visible message")
	})
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Info().Str("candidate", "Foo.dll").Msg("captured")

	tl.AssertContains(t, "captured")
	tl.AssertNotContains(t, "Bar.dll")
}
