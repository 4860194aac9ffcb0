package util

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for name, expected := range tests {
		assert.Equal(t, expected, ParseLevel(name), "level %q", name)
	}
}

func TestTransformSlice(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, TransformSlice([]string{"a", "b"}, strings.ToUpper))
	assert.Equal(t, []int{1, 3}, TransformSlice([]string{"a", "abc"}, func(s string) int { return len(s) }))
	assert.Nil(t, TransformSlice[string, string](nil, strings.ToUpper))
}
