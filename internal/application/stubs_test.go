package application

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"
)

var jst = time.FixedZone("JST", 9*60*60)

type slotStoreStub struct {
	mu        sync.Mutex
	slots     map[string]Slot
	createErr error
	updateErr error
	updates   int
}

func newSlotStoreStub(slots ...Slot) *slotStoreStub {
	s := &slotStoreStub{slots: make(map[string]Slot)}
	for _, slot := range slots {
		s.slots[slot.ID] = slot
	}
	return s
}

func (s *slotStoreStub) CreateSlots(ctx context.Context, slots []Slot) ([]Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, slot := range slots {
		s.slots[slot.ID] = slot
	}
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out, nil
}

func (s *slotStoreStub) GetSlot(ctx context.Context, id string) (Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return Slot{}, ErrNotFound
	}
	return slot, nil
}

func (s *slotStoreStub) UpdateSlot(ctx context.Context, slot Slot) (Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return Slot{}, s.updateErr
	}
	if _, ok := s.slots[slot.ID]; !ok {
		return Slot{}, ErrNotFound
	}
	s.slots[slot.ID] = slot
	s.updates++
	return slot, nil
}

func (s *slotStoreStub) ListSlots(ctx context.Context, filter SlotRepositoryFilter) ([]Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Slot
	for _, slot := range s.slots {
		if filter.OpportunityID != "" && slot.OpportunityID != filter.OpportunityID {
			continue
		}
		if filter.HostingStatus != "" && slot.HostingStatus != filter.HostingStatus {
			continue
		}
		if filter.EndsBefore != nil && slot.EndAt.After(*filter.EndsBefore) {
			continue
		}
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

type reservationStoreStub struct {
	mu           sync.Mutex
	reservations map[string]Reservation
	createErr    error
}

func newReservationStoreStub(reservations ...Reservation) *reservationStoreStub {
	s := &reservationStoreStub{reservations: make(map[string]Reservation)}
	for _, r := range reservations {
		s.reservations[r.ID] = r
	}
	return s
}

func (s *reservationStoreStub) CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return Reservation{}, s.createErr
	}
	s.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (s *reservationStoreStub) GetReservation(ctx context.Context, id string) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return Reservation{}, ErrNotFound
	}
	return r, nil
}

func (s *reservationStoreStub) UpdateReservation(ctx context.Context, reservation Reservation) (Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[reservation.ID]; !ok {
		return Reservation{}, ErrNotFound
	}
	s.reservations[reservation.ID] = reservation
	return reservation, nil
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
