package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/community-slots/internal/domain"
	"github.com/example/community-slots/internal/eligibility"
)

// ReservationRepository captures the persistence interactions needed by the reservation service.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
}

// SlotReader exposes slot lookups.
type SlotReader interface {
	GetSlot(ctx context.Context, id string) (Slot, error)
}

// ReservationService applies the reservation lifecycle under the time-window
// eligibility rules.
type ReservationService struct {
	reservations ReservationRepository
	slots        SlotReader
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewReservationService wires dependencies for reservation operations.
func NewReservationService(reservations ReservationRepository, slots SlotReader, idGenerator func() string, now func() time.Time) *ReservationService {
	return NewReservationServiceWithLogger(reservations, slots, idGenerator, now, nil)
}

// NewReservationServiceWithLogger constructs a reservation service with a specified logger.
func NewReservationServiceWithLogger(reservations ReservationRepository, slots SlotReader, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		reservations: reservations,
		slots:        slots,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// Apply records a participant's application to an active slot that has not
// started yet.
func (s *ReservationService) Apply(ctx context.Context, params ApplyParams) (reservation Reservation, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "Apply",
		"principal_id", params.Principal.UserID,
		"slot_id", params.SlotID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to apply", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "reservation applied")
	}()

	if strings.TrimSpace(params.Principal.UserID) == "" {
		err = ErrUnauthorized
		return
	}

	var slot Slot
	slot, err = s.slots.GetSlot(ctx, params.SlotID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	now := s.now()
	snapshot := eligibility.Snapshot{HostingStatus: slot.HostingStatus, StartAt: slotStart(slot)}
	if err = requireStart(snapshot); err != nil {
		return
	}
	if !eligibility.IsSlotActive(snapshot) {
		err = ErrSlotInactive
		return
	}
	if !now.Before(slot.StartAt) {
		err = ErrWindowClosed
		return
	}

	reservation = Reservation{
		ID:            s.idGenerator(),
		SlotID:        slot.ID,
		ParticipantID: params.Principal.UserID,
		Status:        domain.ReservationApplied,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var persisted Reservation
	persisted, err = s.reservations.CreateReservation(ctx, reservation)
	if err != nil {
		reservation = Reservation{}
		err = mapRepoError(err)
		return
	}
	reservation = persisted
	return
}

// Accept lets the slot organizer accept an applied reservation on an active slot.
func (s *ReservationService) Accept(ctx context.Context, params ReservationActionParams) (Reservation, error) {
	return s.decide(ctx, "Accept", params, domain.ReservationAccepted)
}

// Reject lets the slot organizer reject an applied reservation.
func (s *ReservationService) Reject(ctx context.Context, params ReservationActionParams) (Reservation, error) {
	return s.decide(ctx, "Reject", params, domain.ReservationRejected)
}

func (s *ReservationService) decide(ctx context.Context, operation string, params ReservationActionParams, target domain.ReservationStatus) (reservation Reservation, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, operation,
		"principal_id", params.Principal.UserID,
		"reservation_id", params.ReservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to decide reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("status", string(reservation.Status)).InfoContext(ctx, "reservation decided")
	}()

	var slot Slot
	reservation, slot, err = s.load(ctx, params.ReservationID)
	if err != nil {
		return
	}
	if params.Principal.UserID == "" || slot.OrganizerID != params.Principal.UserID {
		reservation = Reservation{}
		err = ErrUnauthorized
		return
	}

	snapshot := snapshotOf(reservation, slot)
	if !eligibility.IsApplied(snapshot) {
		reservation = Reservation{}
		err = ErrInvalidTransition
		return
	}
	if target == domain.ReservationAccepted && !eligibility.IsSlotActive(snapshot) {
		reservation = Reservation{}
		err = ErrSlotInactive
		return
	}

	reservation, err = s.transition(ctx, reservation, target)
	return
}

// Cancel lets a participant cancel an accepted reservation while more than
// 24 whole hours remain before the slot starts.
func (s *ReservationService) Cancel(ctx context.Context, params ReservationActionParams) (reservation Reservation, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "Cancel",
		"principal_id", params.Principal.UserID,
		"reservation_id", params.ReservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation cancelled")
	}()

	var slot Slot
	reservation, slot, err = s.load(ctx, params.ReservationID)
	if err != nil {
		return
	}
	if params.Principal.UserID == "" || reservation.ParticipantID != params.Principal.UserID {
		reservation = Reservation{}
		err = ErrUnauthorized
		return
	}

	snapshot := snapshotOf(reservation, slot)
	if err = requireStart(snapshot); err != nil {
		reservation = Reservation{}
		return
	}

	now := s.now()
	switch {
	case snapshot.Status != domain.ReservationAccepted:
		err = ErrInvalidTransition
	case !eligibility.IsSlotActive(snapshot):
		err = ErrSlotInactive
	case eligibility.CannotCancelReservation(snapshot, now):
		err = ErrWindowClosed
	}
	if err != nil {
		reservation = Reservation{}
		return
	}

	reservation, err = s.transition(ctx, reservation, domain.ReservationCanceled)
	return
}

// Eligibility reports which actions are currently available for a
// reservation. Every flag is computed against one captured instant.
func (s *ReservationService) Eligibility(ctx context.Context, params ReservationActionParams) (decision eligibility.Decision, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "Eligibility", "reservation_id", params.ReservationID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to evaluate eligibility", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	reservation, slot, err := s.load(ctx, params.ReservationID)
	if err != nil {
		return
	}
	if params.Principal.UserID == "" ||
		(params.Principal.UserID != reservation.ParticipantID && params.Principal.UserID != slot.OrganizerID) {
		err = ErrUnauthorized
		return
	}

	snapshot := snapshotOf(reservation, slot)
	if err = requireStart(snapshot); err != nil {
		return
	}

	decision = eligibility.Evaluate(snapshot, s.now())
	return
}

func (s *ReservationService) ready() error {
	if s == nil {
		return fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil || s.slots == nil {
		return fmt.Errorf("reservation repositories not configured")
	}
	return nil
}

func (s *ReservationService) load(ctx context.Context, reservationID string) (Reservation, Slot, error) {
	reservation, err := s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return Reservation{}, Slot{}, mapRepoError(err)
	}
	slot, err := s.slots.GetSlot(ctx, reservation.SlotID)
	if err != nil {
		return Reservation{}, Slot{}, mapRepoError(err)
	}
	return reservation, slot, nil
}

func (s *ReservationService) transition(ctx context.Context, reservation Reservation, status domain.ReservationStatus) (Reservation, error) {
	reservation.Status = status
	reservation.UpdatedAt = s.now()

	updated, err := s.reservations.UpdateReservation(ctx, reservation)
	if err != nil {
		return Reservation{}, mapRepoError(err)
	}
	return updated, nil
}

func snapshotOf(reservation Reservation, slot Slot) eligibility.Snapshot {
	return eligibility.Snapshot{
		Status:        reservation.Status,
		HostingStatus: slot.HostingStatus,
		StartAt:       slotStart(slot),
	}
}
