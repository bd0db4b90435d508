package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies string to level mapping and rejection of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"":        zapcore.InfoLevel,
		" INFO ":  zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("verbose")
	require.False(t, ok)
}

// TestContextHelpers checks that named and KV loggers travel through the context.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := ToContext(context.Background(), New(&buf))
	ctx = WithName(ctx, "controller")
	ctx = WithKV(ctx, "device", "sim-1")

	InfoKV(ctx, "locked", "reference", "portrait")

	out := buf.String()
	require.Contains(t, out, "controller")
	require.Contains(t, out, "locked")
	require.Contains(t, out, "sim-1")
	require.Contains(t, out, "portrait")
}

// TestFromContextFallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContextFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}
