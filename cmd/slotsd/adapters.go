package main

import (
	"context"

	"github.com/example/community-slots/internal/application"
	"github.com/example/community-slots/internal/persistence"
)

type slotRepositoryAdapter struct {
	repo persistence.SlotRepository
}

func newSlotRepositoryAdapter(repo persistence.SlotRepository) *slotRepositoryAdapter {
	return &slotRepositoryAdapter{repo: repo}
}

func (a *slotRepositoryAdapter) CreateSlots(ctx context.Context, slots []application.Slot) ([]application.Slot, error) {
	models := make([]persistence.Slot, 0, len(slots))
	for _, slot := range slots {
		models = append(models, toPersistenceSlot(slot))
	}
	if err := a.repo.CreateSlots(ctx, models); err != nil {
		return nil, err
	}
	return slots, nil
}

func (a *slotRepositoryAdapter) GetSlot(ctx context.Context, id string) (application.Slot, error) {
	model, err := a.repo.GetSlot(ctx, id)
	if err != nil {
		return application.Slot{}, err
	}
	return toApplicationSlot(model), nil
}

func (a *slotRepositoryAdapter) UpdateSlot(ctx context.Context, slot application.Slot) (application.Slot, error) {
	if err := a.repo.UpdateSlot(ctx, toPersistenceSlot(slot)); err != nil {
		return application.Slot{}, err
	}
	return slot, nil
}

func (a *slotRepositoryAdapter) ListSlots(ctx context.Context, filter application.SlotRepositoryFilter) ([]application.Slot, error) {
	models, err := a.repo.ListSlots(ctx, persistence.SlotFilter{
		OpportunityID: filter.OpportunityID,
		HostingStatus: filter.HostingStatus,
		EndsBefore:    filter.EndsBefore,
	})
	if err != nil {
		return nil, err
	}
	slots := make([]application.Slot, 0, len(models))
	for _, model := range models {
		slots = append(slots, toApplicationSlot(model))
	}
	return slots, nil
}

type reservationRepositoryAdapter struct {
	repo persistence.ReservationRepository
}

func newReservationRepositoryAdapter(repo persistence.ReservationRepository) *reservationRepositoryAdapter {
	return &reservationRepositoryAdapter{repo: repo}
}

func (a *reservationRepositoryAdapter) CreateReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	if err := a.repo.CreateReservation(ctx, toPersistenceReservation(reservation)); err != nil {
		return application.Reservation{}, err
	}
	return reservation, nil
}

func (a *reservationRepositoryAdapter) GetReservation(ctx context.Context, id string) (application.Reservation, error) {
	model, err := a.repo.GetReservation(ctx, id)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(model), nil
}

func (a *reservationRepositoryAdapter) UpdateReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	if err := a.repo.UpdateReservation(ctx, toPersistenceReservation(reservation)); err != nil {
		return application.Reservation{}, err
	}
	return reservation, nil
}

func toApplicationSlot(model persistence.Slot) application.Slot {
	return application.Slot{
		ID:            model.ID,
		OpportunityID: model.OpportunityID,
		OrganizerID:   model.OrganizerID,
		StartAt:       model.StartAt,
		EndAt:         model.EndAt,
		HostingStatus: model.HostingStatus,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toPersistenceSlot(slot application.Slot) persistence.Slot {
	return persistence.Slot{
		ID:            slot.ID,
		OpportunityID: slot.OpportunityID,
		OrganizerID:   slot.OrganizerID,
		StartAt:       slot.StartAt,
		EndAt:         slot.EndAt,
		HostingStatus: slot.HostingStatus,
		CreatedAt:     slot.CreatedAt,
		UpdatedAt:     slot.UpdatedAt,
	}
}

func toApplicationReservation(model persistence.Reservation) application.Reservation {
	return application.Reservation{
		ID:            model.ID,
		SlotID:        model.SlotID,
		ParticipantID: model.ParticipantID,
		Status:        model.Status,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toPersistenceReservation(reservation application.Reservation) persistence.Reservation {
	return persistence.Reservation{
		ID:            reservation.ID,
		SlotID:        reservation.SlotID,
		ParticipantID: reservation.ParticipantID,
		Status:        reservation.Status,
		CreatedAt:     reservation.CreatedAt,
		UpdatedAt:     reservation.UpdatedAt,
	}
}
