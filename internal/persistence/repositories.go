package persistence

import (
	"context"
	"time"

	"github.com/example/community-slots/internal/domain"
)

// SlotFilter narrows slot queries. Zero values are ignored.
type SlotFilter struct {
	OpportunityID string
	HostingStatus domain.HostingStatus
	StartsAfter   *time.Time
	EndsBefore    *time.Time
}

// SlotRepository stores generated and hand-edited slots.
type SlotRepository interface {
	// CreateSlots inserts every slot atomically.
	CreateSlots(ctx context.Context, slots []Slot) error
	GetSlot(ctx context.Context, id string) (Slot, error)
	UpdateSlot(ctx context.Context, slot Slot) error
	ListSlots(ctx context.Context, filter SlotFilter) ([]Slot, error)
}

// ReservationFilter narrows reservation queries. Zero values are ignored.
type ReservationFilter struct {
	SlotID        string
	ParticipantID string
	Statuses      []domain.ReservationStatus
}

// ReservationRepository stores participant reservations.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservation(ctx context.Context, reservation Reservation) error
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
}
