package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, false, "info")
		l.Debug("hidden")
		l.Info("book borrowed", "book_id", 42)

		require.NotContains(t, buf.String(), "hidden")
		require.Contains(t, buf.String(), `"msg":"book borrowed"`)
		require.Contains(t, buf.String(), `"book_id":42`)
	})

	t.Run("text in dev mode", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, true, "debug")
		l.Debug("cache miss", "key", "k")

		require.Contains(t, buf.String(), "level=DEBUG")
		require.Contains(t, buf.String(), `msg="cache miss"`)
		require.Contains(t, buf.String(), "key=k")
	})
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
