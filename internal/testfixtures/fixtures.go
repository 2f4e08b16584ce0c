package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/community-slots/internal/application"
	"github.com/example/community-slots/internal/domain"
	"github.com/example/community-slots/internal/persistence"
)

// Tokyo is the organizer zone used across fixtures.
var Tokyo = time.FixedZone("JST", 9*60*60)

var (
	slotCounter        uint64
	reservationCounter uint64
)

var referenceTime = time.Date(2024, time.March, 1, 9, 0, 0, 0, Tokyo)

// ReferenceTime returns the canonical "now" used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Slot fixtures -----------------------------

// SlotFixture is a deterministic slot that can be materialised for the
// application or persistence layer.
type SlotFixture struct {
	ID            string
	OpportunityID string
	OrganizerID   string
	StartAt       time.Time
	EndAt         time.Time
	HostingStatus domain.HostingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SlotOption configures a generated slot fixture.
type SlotOption func(*SlotFixture)

// NewSlotFixture returns a scheduled one hour slot starting 14 days after
// ReferenceTime.
func NewSlotFixture(opts ...SlotOption) SlotFixture {
	idx := atomic.AddUint64(&slotCounter, 1)
	start := referenceTime.AddDate(0, 0, 14)
	fixture := SlotFixture{
		ID:            fmt.Sprintf("slot-%03d", idx),
		OpportunityID: "opportunity-001",
		OrganizerID:   "organizer-001",
		StartAt:       start,
		EndAt:         start.Add(time.Hour),
		HostingStatus: domain.HostingScheduled,
		CreatedAt:     referenceTime,
		UpdatedAt:     referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithSlotID(id string) SlotOption {
	return func(f *SlotFixture) { f.ID = id }
}

func WithSlotOpportunity(id string) SlotOption {
	return func(f *SlotFixture) { f.OpportunityID = id }
}

func WithSlotOrganizer(id string) SlotOption {
	return func(f *SlotFixture) { f.OrganizerID = id }
}

// WithSlotStart moves the slot to start, keeping its duration.
func WithSlotStart(start time.Time) SlotOption {
	return func(f *SlotFixture) {
		duration := f.EndAt.Sub(f.StartAt)
		f.StartAt = start
		f.EndAt = start.Add(duration)
	}
}

// WithSlotStartIn starts the slot d after ReferenceTime.
func WithSlotStartIn(d time.Duration) SlotOption {
	return WithSlotStart(referenceTime.Add(d))
}

func WithSlotStatus(status domain.HostingStatus) SlotOption {
	return func(f *SlotFixture) { f.HostingStatus = status }
}

// Application converts the fixture into the service layer model.
func (f SlotFixture) Application() application.Slot {
	return application.Slot{
		ID:            f.ID,
		OpportunityID: f.OpportunityID,
		OrganizerID:   f.OrganizerID,
		StartAt:       f.StartAt,
		EndAt:         f.EndAt,
		HostingStatus: f.HostingStatus,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// Persistence converts the fixture into the storage model.
func (f SlotFixture) Persistence() persistence.Slot {
	return persistence.Slot{
		ID:            f.ID,
		OpportunityID: f.OpportunityID,
		OrganizerID:   f.OrganizerID,
		StartAt:       f.StartAt,
		EndAt:         f.EndAt,
		HostingStatus: f.HostingStatus,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// -------------------------- Reservation fixtures --------------------------

// ReservationFixture is a deterministic reservation.
type ReservationFixture struct {
	ID            string
	SlotID        string
	ParticipantID string
	Status        domain.ReservationStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReservationOption configures a generated reservation fixture.
type ReservationOption func(*ReservationFixture)

// NewReservationFixture returns an applied reservation on slotID.
func NewReservationFixture(slotID string, opts ...ReservationOption) ReservationFixture {
	idx := atomic.AddUint64(&reservationCounter, 1)
	fixture := ReservationFixture{
		ID:            fmt.Sprintf("reservation-%03d", idx),
		SlotID:        slotID,
		ParticipantID: fmt.Sprintf("participant-%03d", idx),
		Status:        domain.ReservationApplied,
		CreatedAt:     referenceTime,
		UpdatedAt:     referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

func WithReservationID(id string) ReservationOption {
	return func(f *ReservationFixture) { f.ID = id }
}

func WithReservationParticipant(id string) ReservationOption {
	return func(f *ReservationFixture) { f.ParticipantID = id }
}

func WithReservationStatus(status domain.ReservationStatus) ReservationOption {
	return func(f *ReservationFixture) { f.Status = status }
}

// Application converts the fixture into the service layer model.
func (f ReservationFixture) Application() application.Reservation {
	return application.Reservation{
		ID:            f.ID,
		SlotID:        f.SlotID,
		ParticipantID: f.ParticipantID,
		Status:        f.Status,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// Persistence converts the fixture into the storage model.
func (f ReservationFixture) Persistence() persistence.Reservation {
	return persistence.Reservation{
		ID:            f.ID,
		SlotID:        f.SlotID,
		ParticipantID: f.ParticipantID,
		Status:        f.Status,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}
