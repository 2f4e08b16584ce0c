package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/community-slots/internal/application"
	"github.com/example/community-slots/internal/recurrence"
)

type slotService interface {
	Location() *time.Location
	PreviewRecurrence(ctx context.Context, params application.PreviewRecurrenceParams) (recurrence.Preview, error)
	CreateRecurringSlots(ctx context.Context, params application.CreateRecurringSlotsParams) ([]application.Slot, error)
	ListSlots(ctx context.Context, params application.ListSlotsParams) ([]application.Slot, error)
	CancelSlot(ctx context.Context, params application.CancelSlotParams) (application.Slot, error)
	RescheduleSlot(ctx context.Context, params application.RescheduleSlotParams) (application.Slot, error)
}

// SlotHandler serves recurrence previews and slot management.
type SlotHandler struct {
	service   slotService
	responder responder
	logger    *slog.Logger
	now       func() time.Time
}

func NewSlotHandler(service slotService, logger *slog.Logger) *SlotHandler {
	base := defaultLogger(logger)
	return &SlotHandler{service: service, responder: newResponder(base), logger: base, now: time.Now}
}

func (h *SlotHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SlotHandler", operation, attrs...)
}

func (h *SlotHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req recurrenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Preview", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode preview request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, fields := req.toInput(h.service.Location())
	if len(fields) > 0 {
		h.responder.writeValidation(r.Context(), w, fields)
		return
	}

	preview, err := h.service.PreviewRecurrence(r.Context(), application.PreviewRecurrenceParams{Input: input})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, previewResponse{
		Count: preview.Count(),
		Slots: toDescriptorDTOs(preview.Slots()),
	})
}

func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	opportunityID := chi.URLParam(r, "opportunityID")

	var req recurrenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode slot request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, fields := req.toInput(h.service.Location())
	if len(fields) > 0 {
		h.responder.writeValidation(r.Context(), w, fields)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID, "opportunity_id", opportunityID)

	slots, err := h.service.CreateRecurringSlots(r.Context(), application.CreateRecurringSlotsParams{
		Principal:     principal,
		OpportunityID: opportunityID,
		Input:         input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "slot creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("slot_count", len(slots)).InfoContext(r.Context(), "slots created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, listSlotsResponse{Slots: toSlotDTOs(slots)})
}

func (h *SlotHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	slots, err := h.service.ListSlots(r.Context(), application.ListSlotsParams{
		OpportunityID: chi.URLParam(r, "opportunityID"),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSlotsResponse{Slots: toSlotDTOs(slots)})
}

func (h *SlotHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	opportunityID := chi.URLParam(r, "opportunityID")
	slots, err := h.service.ListSlots(r.Context(), application.ListSlotsParams{OpportunityID: opportunityID})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	body, err := encodeSlotCalendar(opportunityID, slots, h.now())
	if err != nil {
		h.log(r.Context(), "ExportICS", "opportunity_id", opportunityID).ErrorContext(r.Context(), "failed to encode calendar", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *SlotHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	slotID := chi.URLParam(r, "slotID")
	logger := h.log(r.Context(), "Cancel", "principal_id", principal.UserID, "slot_id", slotID)

	slot, err := h.service.CancelSlot(r.Context(), application.CancelSlotParams{Principal: principal, SlotID: slotID})
	if err != nil {
		logger.WarnContext(r.Context(), "slot cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "slot cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, slotResponse{Slot: toSlotDTO(slot)})
}

func (h *SlotHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	slotID := chi.URLParam(r, "slotID")

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Reschedule", "principal_id", principal.UserID, "slot_id", slotID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode reschedule request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Reschedule", "principal_id", principal.UserID, "slot_id", slotID)

	slot, err := h.service.RescheduleSlot(r.Context(), application.RescheduleSlotParams{
		Principal: principal,
		SlotID:    slotID,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "slot reschedule failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "slot rescheduled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, slotResponse{Slot: toSlotDTO(slot)})
}

type baseSlotRequest struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

type recurrenceRequest struct {
	Base      baseSlotRequest `json:"base"`
	Frequency string          `json:"frequency"`
	Days      []int           `json:"days"`
	EndDate   *string         `json:"end_date"`
}

// toInput converts the request into a recurrence input. The end date is a
// YYYY-MM-DD calendar date interpreted in loc; days use 0 for Sunday.
func (r recurrenceRequest) toInput(loc *time.Location) (recurrence.Input, map[string]string) {
	fields := map[string]string{}

	days := make([]time.Weekday, 0, len(r.Days))
	for _, d := range r.Days {
		if d < 0 || d > 6 {
			fields["days"] = "days must be between 0 (Sunday) and 6 (Saturday)"
			break
		}
		days = append(days, time.Weekday(d))
	}

	var endDate *time.Time
	if r.EndDate != nil && strings.TrimSpace(*r.EndDate) != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(*r.EndDate), loc)
		if err != nil {
			fields["end_date"] = "end date must use the YYYY-MM-DD format"
		} else {
			endDate = &parsed
		}
	}

	if len(fields) > 0 {
		return recurrence.Input{}, fields
	}

	return recurrence.Input{
		Base: recurrence.BaseSlot{StartAt: r.Base.StartAt, EndAt: r.Base.EndAt},
		Settings: recurrence.Settings{
			Frequency:    recurrence.Frequency(strings.ToLower(strings.TrimSpace(r.Frequency))),
			SelectedDays: days,
			EndDate:      endDate,
		},
	}, nil
}

type rescheduleRequest struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

type previewResponse struct {
	Count int             `json:"count"`
	Slots []descriptorDTO `json:"slots"`
}

type descriptorDTO struct {
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	HostingStatus string `json:"hosting_status"`
}

func toDescriptorDTOs(slots []recurrence.SlotDescriptor) []descriptorDTO {
	out := make([]descriptorDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, descriptorDTO{
			StartAt:       s.StartAt.Format(time.RFC3339),
			EndAt:         s.EndAt.Format(time.RFC3339),
			HostingStatus: string(s.HostingStatus),
		})
	}
	return out
}

type slotResponse struct {
	Slot slotDTO `json:"slot"`
}

type listSlotsResponse struct {
	Slots []slotDTO `json:"slots"`
}

type slotDTO struct {
	ID            string `json:"id"`
	OpportunityID string `json:"opportunity_id"`
	OrganizerID   string `json:"organizer_id"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	HostingStatus string `json:"hosting_status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toSlotDTO(slot application.Slot) slotDTO {
	return slotDTO{
		ID:            slot.ID,
		OpportunityID: slot.OpportunityID,
		OrganizerID:   slot.OrganizerID,
		StartAt:       slot.StartAt.Format(time.RFC3339),
		EndAt:         slot.EndAt.Format(time.RFC3339),
		HostingStatus: string(slot.HostingStatus),
		CreatedAt:     slot.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     slot.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toSlotDTOs(slots []application.Slot) []slotDTO {
	out := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, toSlotDTO(slot))
	}
	return out
}
