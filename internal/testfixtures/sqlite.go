package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/community-slots/internal/persistence"
	"github.com/example/community-slots/internal/persistence/sqlite"
)

// SQLiteHarness provides repositories backed by a migrated temporary SQLite
// file.
type SQLiteHarness struct {
	Storage      *sqlite.Storage
	Slots        persistence.SlotRepository
	Reservations persistence.ReservationRepository

	cleanup func()
}

// Close releases the database. It is also registered with tb.Cleanup.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens and migrates a database under tb.TempDir.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	storage, err := sqlite.Open(filepath.Join(tb.TempDir(), "slots.db"))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:      storage,
		Slots:        storage,
		Reservations: storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedSlots inserts the fixtures and fails the test on error.
func (h *SQLiteHarness) SeedSlots(tb testing.TB, fixtures ...SlotFixture) {
	tb.Helper()

	slots := make([]persistence.Slot, 0, len(fixtures))
	for _, f := range fixtures {
		slots = append(slots, f.Persistence())
	}
	if err := h.Slots.CreateSlots(context.Background(), slots); err != nil {
		tb.Fatalf("failed to seed slots: %v", err)
	}
}

// SeedReservations inserts the fixtures and fails the test on error.
func (h *SQLiteHarness) SeedReservations(tb testing.TB, fixtures ...ReservationFixture) {
	tb.Helper()

	for _, f := range fixtures {
		if err := h.Reservations.CreateReservation(context.Background(), f.Persistence()); err != nil {
			tb.Fatalf("failed to seed reservation %s: %v", f.ID, err)
		}
	}
}
