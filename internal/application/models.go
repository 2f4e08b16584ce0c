package application

import (
	"time"

	"github.com/example/community-slots/internal/domain"
	"github.com/example/community-slots/internal/recurrence"
)

// Principal identifies the user invoking a service method.
type Principal struct {
	UserID string
}

// Slot is a hosted occurrence of an opportunity.
type Slot struct {
	ID            string
	OpportunityID string
	OrganizerID   string
	StartAt       time.Time
	EndAt         time.Time
	HostingStatus domain.HostingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Reservation is a participant's claim on a slot.
type Reservation struct {
	ID            string
	SlotID        string
	ParticipantID string
	Status        domain.ReservationStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PreviewRecurrenceParams wraps a recurrence configuration to preview.
type PreviewRecurrenceParams struct {
	Input recurrence.Input
}

// CreateRecurringSlotsParams wraps the data required to confirm a preview.
type CreateRecurringSlotsParams struct {
	Principal     Principal
	OpportunityID string
	Input         recurrence.Input
}

// ListSlotsParams selects the slots of one opportunity.
type ListSlotsParams struct {
	OpportunityID string
}

// CancelSlotParams identifies the slot an organizer cancels.
type CancelSlotParams struct {
	Principal Principal
	SlotID    string
}

// RescheduleSlotParams moves a slot to a new time range.
type RescheduleSlotParams struct {
	Principal Principal
	SlotID    string
	StartAt   time.Time
	EndAt     time.Time
}

// ApplyParams identifies the slot a participant applies to.
type ApplyParams struct {
	Principal Principal
	SlotID    string
}

// ReservationActionParams identifies the reservation an action targets.
type ReservationActionParams struct {
	Principal     Principal
	ReservationID string
}
