package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	color.NoColor = true

	t.Run("warn level hides info records", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, false, false)

		l.Info("hidden")
		l.Warn("shown", "files_changed", 2)

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "[WARN]  shown files_changed=2")
	})

	t.Run("verbose enables info", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, false, true)

		l.Info("analyzing diff", "diff_length", 120)

		assert.Contains(t, buf.String(), "[INFO]  analyzing diff diff_length=120")
	})

	t.Run("context carries the logger and its attrs", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), New(&buf, true, false))
		ctx = With(ctx, "command", "verify")

		Debug(ctx, "starting")
		Error(ctx, "failed", errors.New("boom"))

		out := buf.String()
		assert.Contains(t, out, "[DEBUG] starting command=verify")
		assert.Contains(t, out, "[ERROR] failed command=verify error=boom")
	})

	t.Run("groups prefix keys", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, false, true).WithGroup("verifier")

		l.Info("scored", "factual_accuracy", 80)

		assert.Contains(t, buf.String(), "verifier.factual_accuracy=80")
	})
}
