// Package eligibility decides which reservation and slot actions are allowed
// for a point in time. Every function is pure; callers supply "now".
package eligibility

import (
	"time"

	"github.com/samber/mo"

	"github.com/example/community-slots/internal/domain"
)

// Policy names a cancellation window measured in whole hours before a slot
// starts.
type Policy struct {
	Name        string
	CutoffHours int64
}

var (
	// CancellationPolicy24h governs participant cancellation of accepted
	// reservations.
	CancellationPolicy24h = Policy{Name: "cancellation_24h", CutoffHours: 24}
	// OrganizerReschedulePolicy7d governs organizer changes to a slot.
	OrganizerReschedulePolicy7d = Policy{Name: "organizer_reschedule_7d", CutoffHours: 7 * 24}
)

// Snapshot is the read-only view of a reservation and its slot needed to
// decide eligibility. StartAt is None when the slot start is unknown.
type Snapshot struct {
	Status        domain.ReservationStatus
	HostingStatus domain.HostingStatus
	StartAt       mo.Option[time.Time]
}

// Decision holds the affordances for one snapshot at one instant.
type Decision struct {
	CanCancel              bool `json:"can_cancel"`
	CannotCancel           bool `json:"cannot_cancel"`
	CanAccept              bool `json:"can_accept"`
	CanReject              bool `json:"can_reject"`
	OrganizerCanReschedule bool `json:"organizer_can_reschedule"`
}

// IsAccepted reports whether the reservation has been accepted for a slot
// that is still active.
func IsAccepted(s Snapshot) bool {
	return s.Status == domain.ReservationAccepted && IsSlotActive(s)
}

// IsApplied reports whether the reservation is awaiting an organizer
// decision. Slot activity does not matter.
func IsApplied(s Snapshot) bool {
	return s.Status == domain.ReservationApplied
}

// IsSlotCancelled reports whether the organizer cancelled the slot.
func IsSlotCancelled(s Snapshot) bool {
	return s.HostingStatus == domain.HostingCancelled
}

// IsSlotCompleted reports whether the slot has been held.
func IsSlotCompleted(s Snapshot) bool {
	return s.HostingStatus == domain.HostingCompleted
}

// IsSlotActive reports whether the slot is neither cancelled nor completed.
func IsSlotActive(s Snapshot) bool {
	return !IsSlotCancelled(s) && !IsSlotCompleted(s)
}

// HoursUntilStart returns the whole hours from now until start, truncated
// toward zero. Negative values mean the slot has already started.
func HoursUntilStart(start, now time.Time) int64 {
	return int64(start.Sub(now) / time.Hour)
}

// IsWithinCutoff reports whether fewer than cutoffHours whole hours remain
// before the slot starts. A snapshot without a start time is always within
// the cutoff.
func IsWithinCutoff(s Snapshot, now time.Time, cutoffHours int64) bool {
	start, ok := s.StartAt.Get()
	if !ok {
		return true
	}
	return HoursUntilStart(start, now) < cutoffHours
}

// CanCancelReservation reports whether a participant may still cancel.
func CanCancelReservation(s Snapshot, now time.Time) bool {
	return IsAccepted(s) && !IsWithinCutoff(s, now, CancellationPolicy24h.CutoffHours)
}

// CannotCancelReservation reports whether an accepted reservation on an
// active slot is locked by the 24 hour cutoff. It is not the negation of
// CanCancelReservation: both are false for reservations that are not
// accepted or whose slot is inactive.
func CannotCancelReservation(s Snapshot, now time.Time) bool {
	return IsAccepted(s) && IsWithinCutoff(s, now, CancellationPolicy24h.CutoffHours)
}

// Allows reports whether an action governed by p is still permitted for an
// active slot.
func (p Policy) Allows(s Snapshot, now time.Time) bool {
	return IsSlotActive(s) && !IsWithinCutoff(s, now, p.CutoffHours)
}

// Evaluate computes every affordance for s at now.
func Evaluate(s Snapshot, now time.Time) Decision {
	return Decision{
		CanCancel:              CanCancelReservation(s, now),
		CannotCancel:           CannotCancelReservation(s, now),
		CanAccept:              IsApplied(s),
		CanReject:              IsApplied(s),
		OrganizerCanReschedule: OrganizerReschedulePolicy7d.Allows(s, now),
	}
}
