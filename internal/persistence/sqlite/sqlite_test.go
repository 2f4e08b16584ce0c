package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/community-slots/internal/domain"
	"github.com/example/community-slots/internal/persistence"
)

var base = time.Date(2024, time.March, 15, 1, 0, 0, 0, time.UTC)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	storage, err := Open(filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	require.NoError(t, storage.Migrate(context.Background()))
	return storage
}

func newSlot(id string, start time.Time) persistence.Slot {
	return persistence.Slot{
		ID:            id,
		OpportunityID: "opp-1",
		OrganizerID:   "organizer-1",
		StartAt:       start,
		EndAt:         start.Add(time.Hour),
		HostingStatus: domain.HostingScheduled,
		CreatedAt:     base,
		UpdatedAt:     base,
	}
}

func TestStorage_MigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	require.NoError(t, storage.Migrate(context.Background()))
	require.NoError(t, storage.Ping(context.Background()))
}

func TestSlotRepository(t *testing.T) {
	t.Parallel()

	t.Run("creates a batch and lists it in start order", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := newTestStorage(t)

		slots := []persistence.Slot{
			newSlot("slot-3", base.Add(48*time.Hour)),
			newSlot("slot-1", base),
			newSlot("slot-2", base.Add(24*time.Hour)),
		}
		require.NoError(t, storage.CreateSlots(ctx, slots))

		listed, err := storage.ListSlots(ctx, persistence.SlotFilter{OpportunityID: "opp-1"})
		require.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, []string{"slot-1", "slot-2", "slot-3"}, []string{listed[0].ID, listed[1].ID, listed[2].ID})
		assert.Equal(t, base, listed[0].StartAt)
		assert.Equal(t, domain.HostingScheduled, listed[0].HostingStatus)

		other, err := storage.ListSlots(ctx, persistence.SlotFilter{OpportunityID: "opp-2"})
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("keeps sub-second precision and ordering", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := newTestStorage(t)

		short := newSlot("slot-short", base.Add(250*time.Millisecond))
		short.EndAt = base.Add(750 * time.Millisecond)
		whole := newSlot("slot-whole", base)
		require.NoError(t, storage.CreateSlots(ctx, []persistence.Slot{short, whole}))

		listed, err := storage.ListSlots(ctx, persistence.SlotFilter{OpportunityID: "opp-1"})
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, "slot-whole", listed[0].ID)
		assert.Equal(t, short.StartAt, listed[1].StartAt)
		assert.Equal(t, short.EndAt, listed[1].EndAt)

		after := base.Add(100 * time.Millisecond)
		later, err := storage.ListSlots(ctx, persistence.SlotFilter{OpportunityID: "opp-1", StartsAfter: &after})
		require.NoError(t, err)
		require.Len(t, later, 1)
		assert.Equal(t, "slot-short", later[0].ID)
	})

	t.Run("batch insert is atomic", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := newTestStorage(t)

		require.NoError(t, storage.CreateSlots(ctx, []persistence.Slot{newSlot("dup", base)}))

		err := storage.CreateSlots(ctx, []persistence.Slot{
			newSlot("fresh", base.Add(time.Hour)),
			newSlot("dup", base.Add(2*time.Hour)),
		})
		require.ErrorIs(t, err, persistence.ErrDuplicate)

		_, err = storage.GetSlot(ctx, "fresh")
		assert.ErrorIs(t, err, persistence.ErrNotFound)
	})

	t.Run("rejects inverted times", func(t *testing.T) {
		t.Parallel()

		slot := newSlot("bad", base)
		slot.EndAt = slot.StartAt
		err := newTestStorage(t).CreateSlots(context.Background(), []persistence.Slot{slot})
		assert.ErrorIs(t, err, persistence.ErrConstraintViolation)
	})

	t.Run("updates status and times", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := newTestStorage(t)
		slot := newSlot("slot-1", base)
		require.NoError(t, storage.CreateSlots(ctx, []persistence.Slot{slot}))

		slot.StartAt = base.Add(3 * time.Hour)
		slot.EndAt = base.Add(4 * time.Hour)
		slot.HostingStatus = domain.HostingCancelled
		slot.UpdatedAt = base.Add(time.Minute)
		require.NoError(t, storage.UpdateSlot(ctx, slot))

		fetched, err := storage.GetSlot(ctx, "slot-1")
		require.NoError(t, err)
		assert.Equal(t, slot.StartAt, fetched.StartAt)
		assert.Equal(t, domain.HostingCancelled, fetched.HostingStatus)
		assert.Equal(t, base, fetched.CreatedAt)

		missing := newSlot("missing", base)
		assert.ErrorIs(t, storage.UpdateSlot(ctx, missing), persistence.ErrNotFound)
	})

	t.Run("filters elapsed scheduled slots", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := newTestStorage(t)
		cancelled := newSlot("cancelled", base)
		cancelled.HostingStatus = domain.HostingCancelled
		require.NoError(t, storage.CreateSlots(ctx, []persistence.Slot{
			newSlot("past", base),
			cancelled,
			newSlot("future", base.Add(72*time.Hour)),
		}))

		cutoff := base.Add(2 * time.Hour)
		elapsed, err := storage.ListSlots(ctx, persistence.SlotFilter{
			HostingStatus: domain.HostingScheduled,
			EndsBefore:    &cutoff,
		})
		require.NoError(t, err)
		require.Len(t, elapsed, 1)
		assert.Equal(t, "past", elapsed[0].ID)
	})
}

func TestReservationRepository(t *testing.T) {
	t.Parallel()

	t.Run("creates, updates and lists reservations", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := newTestStorage(t)
		require.NoError(t, storage.CreateSlots(ctx, []persistence.Slot{newSlot("slot-1", base)}))

		for i := 1; i <= 2; i++ {
			require.NoError(t, storage.CreateReservation(ctx, persistence.Reservation{
				ID:            fmt.Sprintf("res-%d", i),
				SlotID:        "slot-1",
				ParticipantID: fmt.Sprintf("participant-%d", i),
				Status:        domain.ReservationApplied,
				CreatedAt:     base.Add(time.Duration(i) * time.Minute),
				UpdatedAt:     base.Add(time.Duration(i) * time.Minute),
			}))
		}

		res, err := storage.GetReservation(ctx, "res-1")
		require.NoError(t, err)
		res.Status = domain.ReservationAccepted
		res.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, storage.UpdateReservation(ctx, res))

		accepted, err := storage.ListReservations(ctx, persistence.ReservationFilter{
			SlotID:   "slot-1",
			Statuses: []domain.ReservationStatus{domain.ReservationAccepted},
		})
		require.NoError(t, err)
		require.Len(t, accepted, 1)
		assert.Equal(t, "res-1", accepted[0].ID)

		all, err := storage.ListReservations(ctx, persistence.ReservationFilter{SlotID: "slot-1"})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("one live reservation per participant and slot", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		storage := newTestStorage(t)
		require.NoError(t, storage.CreateSlots(ctx, []persistence.Slot{newSlot("slot-1", base)}))

		res := persistence.Reservation{
			ID:            "res-1",
			SlotID:        "slot-1",
			ParticipantID: "participant-1",
			Status:        domain.ReservationApplied,
			CreatedAt:     base,
			UpdatedAt:     base,
		}
		require.NoError(t, storage.CreateReservation(ctx, res))

		again := res
		again.ID = "res-2"
		assert.ErrorIs(t, storage.CreateReservation(ctx, again), persistence.ErrDuplicate)

		res.Status = domain.ReservationCanceled
		require.NoError(t, storage.UpdateReservation(ctx, res))
		assert.NoError(t, storage.CreateReservation(ctx, again))
	})

	t.Run("requires an existing slot", func(t *testing.T) {
		t.Parallel()

		err := newTestStorage(t).CreateReservation(context.Background(), persistence.Reservation{
			ID:            "res-1",
			SlotID:        "missing",
			ParticipantID: "participant-1",
			Status:        domain.ReservationApplied,
			CreatedAt:     base,
			UpdatedAt:     base,
		})
		assert.ErrorIs(t, err, persistence.ErrForeignKeyViolation)
	})

	t.Run("missing reservation", func(t *testing.T) {
		t.Parallel()

		_, err := newTestStorage(t).GetReservation(context.Background(), "nope")
		assert.ErrorIs(t, err, persistence.ErrNotFound)
	})
}
