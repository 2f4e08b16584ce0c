package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/mo"

	"github.com/example/community-slots/internal/domain"
	"github.com/example/community-slots/internal/eligibility"
	"github.com/example/community-slots/internal/persistence"
	"github.com/example/community-slots/internal/recurrence"
)

// SlotRepository captures the persistence interactions needed by the slot service.
type SlotRepository interface {
	CreateSlots(ctx context.Context, slots []Slot) ([]Slot, error)
	GetSlot(ctx context.Context, id string) (Slot, error)
	UpdateSlot(ctx context.Context, slot Slot) (Slot, error)
	ListSlots(ctx context.Context, filter SlotRepositoryFilter) ([]Slot, error)
}

// SlotRepositoryFilter narrows queries issued to the slot repository.
type SlotRepositoryFilter struct {
	OpportunityID string
	HostingStatus domain.HostingStatus
	EndsBefore    *time.Time
}

// SlotService previews, generates and manages hosted slots.
type SlotService struct {
	slots       SlotRepository
	engine      *recurrence.Engine
	previews    *recurrence.PreviewCache
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSlotService wires dependencies for slot operations. A nil engine expands
// in Asia/Tokyo with the default horizon; a nil cache disables memoisation.
func NewSlotService(slots SlotRepository, engine *recurrence.Engine, previews *recurrence.PreviewCache, idGenerator func() string, now func() time.Time) *SlotService {
	return NewSlotServiceWithLogger(slots, engine, previews, idGenerator, now, nil)
}

// NewSlotServiceWithLogger constructs a slot service with a specified logger.
func NewSlotServiceWithLogger(slots SlotRepository, engine *recurrence.Engine, previews *recurrence.PreviewCache, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SlotService {
	if engine == nil {
		engine = recurrence.NewEngine(nil, recurrence.DefaultHorizonMonths)
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SlotService{
		slots:       slots,
		engine:      engine,
		previews:    previews,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *SlotService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SlotService", operation, attrs...)
}

// Location returns the zone used for recurrence arithmetic.
func (s *SlotService) Location() *time.Location {
	return s.engine.Location()
}

// PreviewRecurrence validates the configuration and returns the slots it
// would generate. Configuration problems are reported as *ValidationError.
func (s *SlotService) PreviewRecurrence(ctx context.Context, params PreviewRecurrenceParams) (preview recurrence.Preview, err error) {
	if s == nil {
		err = fmt.Errorf("SlotService is nil")
		return
	}

	logger := s.loggerWith(ctx, "PreviewRecurrence", "frequency", string(params.Input.Settings.Frequency))
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "recurrence preview rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.DebugContext(ctx, "recurrence previewed", "slot_count", preview.Count())
	}()

	if vErr := s.validateRecurrence(params.Input); vErr.HasErrors() {
		err = vErr
		return
	}

	preview = s.engine.Preview(params.Input, s.previews)
	return
}

// CreateRecurringSlots expands the configuration and persists every
// generated slot for the opportunity in one batch.
func (s *SlotService) CreateRecurringSlots(ctx context.Context, params CreateRecurringSlotsParams) (slots []Slot, err error) {
	if s == nil {
		err = fmt.Errorf("SlotService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRecurringSlots",
		"principal_id", params.Principal.UserID,
		"opportunity_id", params.OpportunityID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create recurring slots", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("slot_count", len(slots)).InfoContext(ctx, "recurring slots created")
	}()

	if strings.TrimSpace(params.Principal.UserID) == "" {
		err = ErrUnauthorized
		return
	}

	vErr := s.validateRecurrence(params.Input)
	if strings.TrimSpace(params.OpportunityID) == "" {
		vErr.add("opportunity_id", "opportunity is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	preview := s.engine.Preview(params.Input, s.previews)
	if !preview.CanConfirm() {
		vErr.add("slots", "recurrence produces no slots")
		err = vErr
		return
	}

	createdAt := s.now()
	descriptors := preview.Slots()
	slots = make([]Slot, 0, len(descriptors))
	for _, d := range descriptors {
		slots = append(slots, Slot{
			ID:            s.idGenerator(),
			OpportunityID: strings.TrimSpace(params.OpportunityID),
			OrganizerID:   params.Principal.UserID,
			StartAt:       d.StartAt,
			EndAt:         d.EndAt,
			HostingStatus: d.HostingStatus,
			CreatedAt:     createdAt,
			UpdatedAt:     createdAt,
		})
	}

	if s.slots == nil {
		return
	}

	var persisted []Slot
	persisted, err = s.slots.CreateSlots(ctx, slots)
	if err != nil {
		slots = nil
		err = mapRepoError(err)
		return
	}

	slots = persisted
	return
}

// ListSlots returns the slots of an opportunity ordered by start time.
func (s *SlotService) ListSlots(ctx context.Context, params ListSlotsParams) (slots []Slot, err error) {
	if s == nil {
		err = fmt.Errorf("SlotService is nil")
		return
	}
	if s.slots == nil {
		err = fmt.Errorf("slot repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "ListSlots", "opportunity_id", params.OpportunityID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list slots", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(slots)).DebugContext(ctx, "slots listed")
	}()

	if strings.TrimSpace(params.OpportunityID) == "" {
		vErr := &ValidationError{}
		vErr.add("opportunity_id", "opportunity is required")
		err = vErr
		return
	}

	slots, err = s.slots.ListSlots(ctx, SlotRepositoryFilter{OpportunityID: params.OpportunityID})
	if err != nil {
		err = mapRepoError(err)
	}
	return
}

// CancelSlot lets the organizer cancel a scheduled slot that has not started.
func (s *SlotService) CancelSlot(ctx context.Context, params CancelSlotParams) (slot Slot, err error) {
	if s == nil {
		err = fmt.Errorf("SlotService is nil")
		return
	}
	if s.slots == nil {
		err = fmt.Errorf("slot repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CancelSlot",
		"principal_id", params.Principal.UserID,
		"slot_id", params.SlotID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel slot", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "slot cancelled")
	}()

	slot, err = s.organizerSlot(ctx, params.Principal, params.SlotID)
	if err != nil {
		return
	}

	now := s.now()
	if slot.HostingStatus != domain.HostingScheduled {
		err = ErrSlotInactive
		return
	}
	if !now.Before(slot.StartAt) {
		err = ErrWindowClosed
		return
	}

	slot.HostingStatus = domain.HostingCancelled
	slot.UpdatedAt = now
	slot, err = s.slots.UpdateSlot(ctx, slot)
	if err != nil {
		err = mapRepoError(err)
	}
	return
}

// RescheduleSlot moves a slot. Organizers may only reschedule while the slot
// is active and at least seven days away; afterwards it is cancel-only.
func (s *SlotService) RescheduleSlot(ctx context.Context, params RescheduleSlotParams) (slot Slot, err error) {
	if s == nil {
		err = fmt.Errorf("SlotService is nil")
		return
	}
	if s.slots == nil {
		err = fmt.Errorf("slot repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "RescheduleSlot",
		"principal_id", params.Principal.UserID,
		"slot_id", params.SlotID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to reschedule slot", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("start_at", slot.StartAt).InfoContext(ctx, "slot rescheduled")
	}()

	now := s.now()

	vErr := &ValidationError{}
	switch {
	case params.StartAt.IsZero():
		vErr.add("start_at", "start time is required")
	case !params.EndAt.After(params.StartAt):
		vErr.add("end_at", "end time must be after start time")
	case !params.StartAt.After(now):
		vErr.add("start_at", "start time must be in the future")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	slot, err = s.organizerSlot(ctx, params.Principal, params.SlotID)
	if err != nil {
		return
	}

	snapshot := eligibility.Snapshot{HostingStatus: slot.HostingStatus, StartAt: slotStart(slot)}
	if err = requireStart(snapshot); err != nil {
		return
	}
	if !eligibility.IsSlotActive(snapshot) {
		err = ErrSlotInactive
		return
	}
	if !eligibility.OrganizerReschedulePolicy7d.Allows(snapshot, now) {
		err = ErrWindowClosed
		return
	}

	slot.StartAt = params.StartAt
	slot.EndAt = params.EndAt
	slot.UpdatedAt = now
	slot, err = s.slots.UpdateSlot(ctx, slot)
	if err != nil {
		err = mapRepoError(err)
	}
	return
}

// CompleteElapsedSlots marks every scheduled slot that has ended as
// completed and returns how many changed.
func (s *SlotService) CompleteElapsedSlots(ctx context.Context) (completed int, err error) {
	if s == nil {
		err = fmt.Errorf("SlotService is nil")
		return
	}
	if s.slots == nil {
		err = fmt.Errorf("slot repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CompleteElapsedSlots")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to complete elapsed slots", "error", err, "completed", completed)
			return
		}
		if completed > 0 {
			logger.InfoContext(ctx, "elapsed slots completed", "completed", completed)
		}
	}()

	now := s.now()
	elapsed, err := s.slots.ListSlots(ctx, SlotRepositoryFilter{
		HostingStatus: domain.HostingScheduled,
		EndsBefore:    &now,
	})
	if err != nil {
		err = mapRepoError(err)
		return
	}

	for _, slot := range elapsed {
		if err = ctx.Err(); err != nil {
			return
		}
		slot.HostingStatus = domain.HostingCompleted
		slot.UpdatedAt = now
		if _, err = s.slots.UpdateSlot(ctx, slot); err != nil {
			err = fmt.Errorf("complete slot %s: %w", slot.ID, mapRepoError(err))
			return
		}
		completed++
	}
	return
}

func (s *SlotService) organizerSlot(ctx context.Context, principal Principal, slotID string) (Slot, error) {
	if strings.TrimSpace(principal.UserID) == "" {
		return Slot{}, ErrUnauthorized
	}
	slot, err := s.slots.GetSlot(ctx, slotID)
	if err != nil {
		return Slot{}, mapRepoError(err)
	}
	if slot.OrganizerID != principal.UserID {
		return Slot{}, ErrUnauthorized
	}
	return slot, nil
}

func (s *SlotService) validateRecurrence(input recurrence.Input) *ValidationError {
	vErr := &ValidationError{}

	switch {
	case input.Base.StartAt.IsZero() || input.Base.EndAt.IsZero():
		vErr.add("base", "base slot start and end are required")
	case !input.Base.EndAt.After(input.Base.StartAt):
		vErr.add("base", "base slot must end after it starts")
	}

	if !input.Settings.Frequency.Valid() {
		vErr.add("frequency", "frequency must be daily or weekly")
		return vErr
	}

	if !input.Base.StartAt.IsZero() {
		vErr.merge(s.engine.Validate(input).Fields())
	}
	return vErr
}

func slotStart(slot Slot) mo.Option[time.Time] {
	if slot.StartAt.IsZero() {
		return mo.None[time.Time]()
	}
	return mo.Some(slot.StartAt)
}

// requireStart fails loudly for snapshots the evaluator would otherwise
// resolve conservatively.
func requireStart(snapshot eligibility.Snapshot) error {
	if snapshot.StartAt.IsAbsent() {
		return ErrIncompleteSnapshot
	}
	return nil
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrNotFound
	}
	return err
}
