package persistence

import (
	"time"

	"github.com/example/community-slots/internal/domain"
)

// Slot is a concrete hosted occurrence of an opportunity.
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

// Reservation records a participant's request for a slot.
type Reservation struct {
	ID            string
	SlotID        string
	ParticipantID string
	Status        domain.ReservationStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
