package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/community-slots/internal/domain"
	"github.com/example/community-slots/internal/persistence"
	"github.com/example/community-slots/internal/recurrence"
	"github.com/example/community-slots/internal/testfixtures"
)

func TestSlotRepository_RoundTripsGeneratedSlots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	engine := recurrence.NewEngine(testfixtures.Tokyo, 3)
	start := time.Date(2024, time.March, 1, 19, 30, 0, 0, testfixtures.Tokyo)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, testfixtures.Tokyo)
	descriptors := engine.Expand(recurrence.Input{
		Base: recurrence.BaseSlot{StartAt: start, EndAt: start.Add(90 * time.Minute)},
		Settings: recurrence.Settings{
			Frequency:    recurrence.FrequencyWeekly,
			SelectedDays: []time.Weekday{time.Tuesday, time.Saturday},
			EndDate:      &end,
		},
	})
	require.Len(t, descriptors, 9)

	slots := make([]persistence.Slot, 0, len(descriptors))
	for i, d := range descriptors {
		slots = append(slots, testfixtures.NewSlotFixture(
			testfixtures.WithSlotID(string(rune('a'+i))),
			testfixtures.WithSlotStart(d.StartAt),
		).Persistence())
	}
	require.NoError(t, harness.Slots.CreateSlots(ctx, slots))

	listed, err := harness.Slots.ListSlots(ctx, persistence.SlotFilter{OpportunityID: "opportunity-001"})
	require.NoError(t, err)
	require.Len(t, listed, len(descriptors))

	for i, slot := range listed {
		assert.True(t, slot.StartAt.Equal(descriptors[i].StartAt), "slot %d start", i)
		assert.Equal(t, 90*time.Minute, slot.EndAt.Sub(slot.StartAt))

		local := slot.StartAt.In(testfixtures.Tokyo)
		assert.Equal(t, 19, local.Hour())
		assert.Contains(t, []time.Weekday{time.Tuesday, time.Saturday}, local.Weekday())
	}
}

func TestSlotRepository_FiltersByStartWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	early := testfixtures.NewSlotFixture(testfixtures.WithSlotStartIn(24 * time.Hour))
	late := testfixtures.NewSlotFixture(testfixtures.WithSlotStartIn(10 * 24 * time.Hour))
	other := testfixtures.NewSlotFixture(testfixtures.WithSlotOpportunity("opportunity-002"))
	harness.SeedSlots(t, early, late, other)

	after := testfixtures.ReferenceTime().Add(48 * time.Hour)
	listed, err := harness.Slots.ListSlots(ctx, persistence.SlotFilter{
		OpportunityID: "opportunity-001",
		StartsAfter:   &after,
	})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, late.ID, listed[0].ID)
}

func TestReservationRepository_StatusFilterAndRebooking(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)

	slot := testfixtures.NewSlotFixture()
	harness.SeedSlots(t, slot)

	cancelled := testfixtures.NewReservationFixture(slot.ID,
		testfixtures.WithReservationParticipant("p-1"),
		testfixtures.WithReservationStatus(domain.ReservationCanceled),
	)
	accepted := testfixtures.NewReservationFixture(slot.ID,
		testfixtures.WithReservationParticipant("p-2"),
		testfixtures.WithReservationStatus(domain.ReservationAccepted),
	)
	harness.SeedReservations(t, cancelled, accepted)

	// A cancelled reservation does not block a new application.
	reapplied := testfixtures.NewReservationFixture(slot.ID, testfixtures.WithReservationParticipant("p-1"))
	require.NoError(t, harness.Reservations.CreateReservation(ctx, reapplied.Persistence()))

	duplicate := testfixtures.NewReservationFixture(slot.ID, testfixtures.WithReservationParticipant("p-2"))
	err := harness.Reservations.CreateReservation(ctx, duplicate.Persistence())
	assert.True(t, errors.Is(err, persistence.ErrDuplicate), "got %v", err)

	live, err := harness.Reservations.ListReservations(ctx, persistence.ReservationFilter{
		SlotID:   slot.ID,
		Statuses: []domain.ReservationStatus{domain.ReservationApplied, domain.ReservationAccepted},
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(live))
	for _, r := range live {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{accepted.ID, reapplied.ID}, ids)
}
