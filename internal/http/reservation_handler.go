package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/community-slots/internal/application"
	"github.com/example/community-slots/internal/eligibility"
)

type reservationService interface {
	Apply(ctx context.Context, params application.ApplyParams) (application.Reservation, error)
	Accept(ctx context.Context, params application.ReservationActionParams) (application.Reservation, error)
	Reject(ctx context.Context, params application.ReservationActionParams) (application.Reservation, error)
	Cancel(ctx context.Context, params application.ReservationActionParams) (application.Reservation, error)
	Eligibility(ctx context.Context, params application.ReservationActionParams) (eligibility.Decision, error)
}

// ReservationHandler serves the reservation lifecycle endpoints.
type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

func (h *ReservationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	slotID := chi.URLParam(r, "slotID")
	logger := h.log(r.Context(), "Apply", "principal_id", principal.UserID, "slot_id", slotID)

	reservation, err := h.service.Apply(r.Context(), application.ApplyParams{Principal: principal, SlotID: slotID})
	if err != nil {
		logger.WarnContext(r.Context(), "apply failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("reservation_id", reservation.ID).InfoContext(r.Context(), "reservation applied")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Accept", func(ctx context.Context, params application.ReservationActionParams) (application.Reservation, error) {
		return h.service.Accept(ctx, params)
	})
}

func (h *ReservationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Reject", func(ctx context.Context, params application.ReservationActionParams) (application.Reservation, error) {
		return h.service.Reject(ctx, params)
	})
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Cancel", func(ctx context.Context, params application.ReservationActionParams) (application.Reservation, error) {
		return h.service.Cancel(ctx, params)
	})
}

func (h *ReservationHandler) transition(w http.ResponseWriter, r *http.Request, operation string, action func(context.Context, application.ReservationActionParams) (application.Reservation, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	reservationID := chi.URLParam(r, "reservationID")
	logger := h.log(r.Context(), operation, "principal_id", principal.UserID, "reservation_id", reservationID)

	reservation, err := action(r.Context(), application.ReservationActionParams{
		Principal:     principal,
		ReservationID: reservationID,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "reservation action failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("status", string(reservation.Status)).InfoContext(r.Context(), "reservation updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	decision, err := h.service.Eligibility(r.Context(), application.ReservationActionParams{
		Principal:     principal,
		ReservationID: chi.URLParam(r, "reservationID"),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, decision)
}

type reservationResponse struct {
	Reservation reservationDTO `json:"reservation"`
}

type reservationDTO struct {
	ID            string `json:"id"`
	SlotID        string `json:"slot_id"`
	ParticipantID string `json:"participant_id"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toReservationDTO(reservation application.Reservation) reservationDTO {
	return reservationDTO{
		ID:            reservation.ID,
		SlotID:        reservation.SlotID,
		ParticipantID: reservation.ParticipantID,
		Status:        string(reservation.Status),
		CreatedAt:     reservation.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     reservation.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
