// Package domain holds the status vocabularies shared by the recurrence,
// eligibility and persistence layers.
package domain

import "strings"

// HostingStatus is the lifecycle state of a hosted opportunity slot.
type HostingStatus string

const (
	HostingScheduled HostingStatus = "SCHEDULED"
	HostingCancelled HostingStatus = "CANCELLED"
	HostingCompleted HostingStatus = "COMPLETED"
)

// Valid reports whether s is one of the known hosting states.
func (s HostingStatus) Valid() bool {
	switch s {
	case HostingScheduled, HostingCancelled, HostingCompleted:
		return true
	}
	return false
}

// ParseHostingStatus normalises a stored or user supplied value. Unknown
// values yield false.
func ParseHostingStatus(value string) (HostingStatus, bool) {
	s := HostingStatus(strings.ToUpper(strings.TrimSpace(value)))
	return s, s.Valid()
}

// ReservationStatus is the state of a participant's reservation.
type ReservationStatus string

const (
	ReservationApplied  ReservationStatus = "APPLIED"
	ReservationAccepted ReservationStatus = "ACCEPTED"
	ReservationRejected ReservationStatus = "REJECTED"
	ReservationCanceled ReservationStatus = "CANCELED"
)

// Valid reports whether s is one of the known reservation states.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationApplied, ReservationAccepted, ReservationRejected, ReservationCanceled:
		return true
	}
	return false
}

// ParseReservationStatus normalises a stored or user supplied value.
func ParseReservationStatus(value string) (ReservationStatus, bool) {
	s := ReservationStatus(strings.ToUpper(strings.TrimSpace(value)))
	return s, s.Valid()
}
