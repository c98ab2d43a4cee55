package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tandem/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_Levels(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)

	l.Info("loaded 18 tasks")
	l.Warn("task build overridden")

	assert.Equal(t, "loaded 18 tasks\n! task build overridden\n", buf.String())
}

func TestLogger_Error_Chain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)

	inner := zerr.With(zerr.New("task not found"), "task", "deploy")
	l.Error(zerr.Wrap(inner, "failed to plan run"))

	out := buf.String()
	assert.Contains(t, out, "✗ Error: failed to plan run")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ task not found")
	assert.Contains(t, out, "task: deploy")
}

func TestLogger_Error_Nil(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)

	l.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)
	l.SetJSON(true)

	l.Error(errors.New("boom"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "boom", record["error"])
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "single error"}},
			want:    "Error: single error",
		},
		{
			name:    "caused by",
			entries: []logger.ErrorEntry{{Message: "outer"}, {Message: "inner"}, {Message: "root"}},
			want:    "Error: outer\n\n  Caused by:\n    → inner\n    → root",
		},
		{
			name: "metadata sorted alphabetically",
			entries: []logger.ErrorEntry{{
				Message:  "error",
				Metadata: map[string]any{"zebra": "z", "alpha": "a"},
			}},
			want: "Error: error\n       alpha: a\n       zebra: z",
		},
		{
			name:    "multiline cause",
			entries: []logger.ErrorEntry{{Message: "main"}, {Message: "line1\nline2", Metadata: map[string]any{"k": 1}}},
			want:    "Error: main\n\n  Caused by:\n    → line1\n      line2\n      k: 1",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}

func TestCollectErrorEntries(t *testing.T) {
	err := zerr.With(zerr.Wrap(errors.New("exit status 2"), "command failed"), "exit_code", 2)

	entries := logger.CollectErrorEntries(err)
	require.Len(t, entries, 2)
	assert.Equal(t, "command failed", entries[0].Message)
	assert.Equal(t, map[string]any{"exit_code": 2}, entries[0].Metadata)
	assert.Equal(t, "exit status 2", entries[1].Message)
	assert.Nil(t, entries[1].Metadata)

	assert.Empty(t, logger.CollectErrorEntries(nil))
}
