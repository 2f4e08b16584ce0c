// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SlotCompleter transitions elapsed slots to COMPLETED.
type SlotCompleter interface {
	CompleteElapsedSlots(ctx context.Context) (int, error)
}

// CompletionSweeper periodically completes slots whose end time has passed.
type CompletionSweeper struct {
	completer SlotCompleter
	cron      *cron.Cron
	spec      string
	timeout   time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	entryID cron.EntryID
}

// NewCompletionSweeper parses spec as a standard five field cron expression
// (or a descriptor such as @hourly) evaluated in loc.
func NewCompletionSweeper(completer SlotCompleter, spec string, loc *time.Location, logger *slog.Logger) (*CompletionSweeper, error) {
	if completer == nil {
		return nil, fmt.Errorf("slot completer is required")
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &CompletionSweeper{
		completer: completer,
		cron:      cron.New(cron.WithLocation(loc)),
		spec:      spec,
		timeout:   time.Minute,
		logger:    logger.With("job", "completion_sweeper"),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	id, err := s.cron.AddFunc(spec, s.runScheduled)
	if err != nil {
		s.cancel()
		return nil, fmt.Errorf("invalid completion sweep schedule %q: %w", spec, err)
	}
	s.entryID = id
	return s, nil
}

// Start begins the schedule in its own goroutine.
func (s *CompletionSweeper) Start() {
	s.logger.Info("completion sweeper started", "schedule", s.spec)
	s.cron.Start()
}

// Stop halts the schedule, cancels any running sweep and waits for it to return
// or for ctx to expire.
func (s *CompletionSweeper) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports when the sweep fires next. Zero until Start is called.
func (s *CompletionSweeper) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// RunOnce performs a single sweep.
func (s *CompletionSweeper) RunOnce(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	completed, err := s.completer.CompleteElapsedSlots(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "completion sweep failed", "error", err, "completed", completed)
		return completed, err
	}
	s.logger.DebugContext(ctx, "completion sweep finished", "completed", completed)
	return completed, nil
}

func (s *CompletionSweeper) runScheduled() {
	_, _ = s.RunOnce(s.ctx)
}
