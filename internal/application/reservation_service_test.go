package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/community-slots/internal/domain"
	"github.com/example/community-slots/internal/persistence"
)

var reservationNow = time.Date(2024, time.April, 1, 12, 0, 0, 0, jst)

func reservationSlot(startIn time.Duration, status domain.HostingStatus) Slot {
	start := reservationNow.Add(startIn)
	return Slot{
		ID:            "slot-1",
		OpportunityID: "opp-1",
		OrganizerID:   "organizer-1",
		StartAt:       start,
		EndAt:         start.Add(time.Hour),
		HostingStatus: status,
	}
}

func reservationIn(status domain.ReservationStatus) Reservation {
	return Reservation{
		ID:            "res-1",
		SlotID:        "slot-1",
		ParticipantID: "participant-1",
		Status:        status,
	}
}

func newTestReservationService(slot Slot, reservations ...Reservation) (*ReservationService, *reservationStoreStub) {
	store := newReservationStoreStub(reservations...)
	svc := NewReservationService(store, newSlotStoreStub(slot), sequentialIDs("res"), fixedNow(reservationNow))
	return svc, store
}

func TestReservationService_Apply(t *testing.T) {
	t.Parallel()

	t.Run("creates an applied reservation", func(t *testing.T) {
		t.Parallel()

		svc, store := newTestReservationService(reservationSlot(48*time.Hour, domain.HostingScheduled))
		reservation, err := svc.Apply(context.Background(), ApplyParams{
			Principal: Principal{UserID: "participant-1"},
			SlotID:    "slot-1",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationApplied, reservation.Status)
		assert.Equal(t, "participant-1", reservation.ParticipantID)
		assert.Equal(t, reservationNow, reservation.CreatedAt)
		assert.Contains(t, store.reservations, reservation.ID)
	})

	cases := []struct {
		name      string
		slot      Slot
		principal string
		storeErr  error
		wantErr   error
	}{
		{"anonymous", reservationSlot(48*time.Hour, domain.HostingScheduled), "", nil, ErrUnauthorized},
		{"cancelled slot", reservationSlot(48*time.Hour, domain.HostingCancelled), "participant-1", nil, ErrSlotInactive},
		{"started slot", reservationSlot(-time.Minute, domain.HostingScheduled), "participant-1", nil, ErrWindowClosed},
		{"duplicate", reservationSlot(48*time.Hour, domain.HostingScheduled), "participant-1", persistence.ErrDuplicate, ErrAlreadyExists},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, store := newTestReservationService(tc.slot)
			store.createErr = tc.storeErr
			_, err := svc.Apply(context.Background(), ApplyParams{
				Principal: Principal{UserID: tc.principal},
				SlotID:    "slot-1",
			})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestReservationService_AcceptReject(t *testing.T) {
	t.Parallel()

	t.Run("organizer accepts an applied reservation", func(t *testing.T) {
		t.Parallel()

		svc, store := newTestReservationService(reservationSlot(time.Hour, domain.HostingScheduled), reservationIn(domain.ReservationApplied))
		reservation, err := svc.Accept(context.Background(), ReservationActionParams{
			Principal:     Principal{UserID: "organizer-1"},
			ReservationID: "res-1",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationAccepted, reservation.Status)
		assert.Equal(t, domain.ReservationAccepted, store.reservations["res-1"].Status)
	})

	t.Run("organizer rejects an applied reservation on a cancelled slot", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestReservationService(reservationSlot(time.Hour, domain.HostingCancelled), reservationIn(domain.ReservationApplied))
		reservation, err := svc.Reject(context.Background(), ReservationActionParams{
			Principal:     Principal{UserID: "organizer-1"},
			ReservationID: "res-1",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationRejected, reservation.Status)
	})

	t.Run("accept on a cancelled slot", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestReservationService(reservationSlot(time.Hour, domain.HostingCancelled), reservationIn(domain.ReservationApplied))
		_, err := svc.Accept(context.Background(), ReservationActionParams{
			Principal:     Principal{UserID: "organizer-1"},
			ReservationID: "res-1",
		})
		assert.ErrorIs(t, err, ErrSlotInactive)
	})

	t.Run("participant cannot decide", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestReservationService(reservationSlot(time.Hour, domain.HostingScheduled), reservationIn(domain.ReservationApplied))
		_, err := svc.Accept(context.Background(), ReservationActionParams{
			Principal:     Principal{UserID: "participant-1"},
			ReservationID: "res-1",
		})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("already accepted", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestReservationService(reservationSlot(time.Hour, domain.HostingScheduled), reservationIn(domain.ReservationAccepted))
		_, err := svc.Reject(context.Background(), ReservationActionParams{
			Principal:     Principal{UserID: "organizer-1"},
			ReservationID: "res-1",
		})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("missing reservation", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestReservationService(reservationSlot(time.Hour, domain.HostingScheduled))
		_, err := svc.Accept(context.Background(), ReservationActionParams{
			Principal:     Principal{UserID: "organizer-1"},
			ReservationID: "res-1",
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		startIn time.Duration
		hosting domain.HostingStatus
		status  domain.ReservationStatus
		caller  string
		wantErr error
	}{
		{"25 hours ahead", 25 * time.Hour, domain.HostingScheduled, domain.ReservationAccepted, "participant-1", nil},
		{"exactly 24 hours ahead", 24 * time.Hour, domain.HostingScheduled, domain.ReservationAccepted, "participant-1", nil},
		{"23 hours ahead", 23 * time.Hour, domain.HostingScheduled, domain.ReservationAccepted, "participant-1", ErrWindowClosed},
		{"one minute short of 24 hours", 24*time.Hour - time.Minute, domain.HostingScheduled, domain.ReservationAccepted, "participant-1", ErrWindowClosed},
		{"slot cancelled", 72 * time.Hour, domain.HostingCancelled, domain.ReservationAccepted, "participant-1", ErrSlotInactive},
		{"only applied", 72 * time.Hour, domain.HostingScheduled, domain.ReservationApplied, "participant-1", ErrInvalidTransition},
		{"organizer", 72 * time.Hour, domain.HostingScheduled, domain.ReservationAccepted, "organizer-1", ErrUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, store := newTestReservationService(reservationSlot(tc.startIn, tc.hosting), reservationIn(tc.status))
			reservation, err := svc.Cancel(context.Background(), ReservationActionParams{
				Principal:     Principal{UserID: tc.caller},
				ReservationID: "res-1",
			})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, tc.status, store.reservations["res-1"].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.ReservationCanceled, reservation.Status)
			assert.Equal(t, reservationNow, reservation.UpdatedAt)
		})
	}

	t.Run("slot without start time", func(t *testing.T) {
		t.Parallel()

		slot := reservationSlot(72*time.Hour, domain.HostingScheduled)
		slot.StartAt = time.Time{}
		svc, _ := newTestReservationService(slot, reservationIn(domain.ReservationAccepted))
		_, err := svc.Cancel(context.Background(), ReservationActionParams{
			Principal:     Principal{UserID: "participant-1"},
			ReservationID: "res-1",
		})
		assert.ErrorIs(t, err, ErrIncompleteSnapshot)
	})
}

func TestReservationService_Eligibility(t *testing.T) {
	t.Parallel()

	t.Run("accepted reservation close to start", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestReservationService(reservationSlot(23*time.Hour, domain.HostingScheduled), reservationIn(domain.ReservationAccepted))
		decision, err := svc.Eligibility(context.Background(), ReservationActionParams{
			Principal:     Principal{UserID: "participant-1"},
			ReservationID: "res-1",
		})
		require.NoError(t, err)
		assert.False(t, decision.CanCancel)
		assert.True(t, decision.CannotCancel)
		assert.False(t, decision.CanAccept)
		assert.False(t, decision.OrganizerCanReschedule)
	})

	t.Run("applied reservation far ahead", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestReservationService(reservationSlot(10*24*time.Hour, domain.HostingScheduled), reservationIn(domain.ReservationApplied))
		decision, err := svc.Eligibility(context.Background(), ReservationActionParams{
			Principal:     Principal{UserID: "organizer-1"},
			ReservationID: "res-1",
		})
		require.NoError(t, err)
		assert.True(t, decision.CanAccept)
		assert.True(t, decision.CanReject)
		assert.False(t, decision.CanCancel)
		assert.True(t, decision.OrganizerCanReschedule)
	})

	t.Run("stranger", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestReservationService(reservationSlot(time.Hour, domain.HostingScheduled), reservationIn(domain.ReservationApplied))
		_, err := svc.Eligibility(context.Background(), ReservationActionParams{
			Principal:     Principal{UserID: "someone"},
			ReservationID: "res-1",
		})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
