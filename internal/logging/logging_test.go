package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextLogger(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FromContext(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := ContextWithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	assert.Equal(t, ctx, ContextWithLogger(ctx, nil))
}

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, "warn", "json").Info("dropped")
	assert.Empty(t, buf.String())

	New(&buf, "debug", "json").Debug("kept", "slot_id", "s1")
	assert.Contains(t, buf.String(), `"slot_id":"s1"`)

	buf.Reset()
	New(&buf, "bogus", "text").Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
