package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCompleter struct {
	calls atomic.Int32
	n     int
	err   error
}

func (c *countingCompleter) CompleteElapsedSlots(ctx context.Context) (int, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return c.n, c.err
}

func TestNewCompletionSweeper(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.DiscardHandler)

	_, err := NewCompletionSweeper(&countingCompleter{}, "not a schedule", time.UTC, logger)
	assert.Error(t, err)

	_, err = NewCompletionSweeper(nil, "*/10 * * * *", time.UTC, logger)
	assert.Error(t, err)

	s, err := NewCompletionSweeper(&countingCompleter{}, "*/10 * * * *", time.UTC, logger)
	require.NoError(t, err)
	require.NoError(t, s.Stop(context.Background()))
}

func TestCompletionSweeper_RunOnce(t *testing.T) {
	t.Parallel()

	completer := &countingCompleter{n: 3}
	s, err := NewCompletionSweeper(completer, "@hourly", time.UTC, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	completed, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, completed)

	completer.err = errors.New("database locked")
	_, err = s.RunOnce(context.Background())
	assert.EqualError(t, err, "database locked")
	assert.Equal(t, int32(2), completer.calls.Load())
}

func TestCompletionSweeper_SchedulesInLocation(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)
	s, err := NewCompletionSweeper(&countingCompleter{}, "0 3 * * *", tokyo, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	s.Start()
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	require.Eventually(t, func() bool { return !s.Next().IsZero() }, time.Second, 10*time.Millisecond)
	next := s.Next().In(tokyo)
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())
}
