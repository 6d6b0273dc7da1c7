package booking

import (
	"context"
	"sort"
	"sync"

	"barbearia-backend/internal/catalog"
)

// memoryRepo enforces the one-active-appointment-per-slot rule under its
// mutex, the way the partial unique index does in Mongo.
type memoryRepo struct {
	mu    sync.Mutex
	items map[string]Appointment
	err   error

	// beforeInsert runs outside the lock; tests use it to line up racers.
	beforeInsert func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]Appointment{}}
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Appointment, 0, len(r.items))
	for _, a := range r.items {
		if filter.Date != "" && a.Date != filter.Date {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Appointment{}, r.err
	}
	a, ok := r.items[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *memoryRepo) ListActiveByDate(ctx context.Context, date string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Appointment, 0)
	for _, a := range r.items {
		if a.Date == date && a.Active() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepo) HasActive(ctx context.Context, date, slot string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	return r.activeLocked(date, slot), nil
}

func (r *memoryRepo) Insert(ctx context.Context, item Appointment) error {
	if r.beforeInsert != nil {
		r.beforeInsert()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if item.Active() && r.activeLocked(item.Date, item.Time) {
		return ErrSlotTaken
	}
	r.items[item.ID] = item
	return nil
}

func (r *memoryRepo) Cancel(ctx context.Context, id string) (Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Appointment{}, r.err
	}
	a, ok := r.items[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	a.Status = StatusCancelled
	r.items[id] = a
	return a, nil
}

func (r *memoryRepo) activeLocked(date, slot string) bool {
	for _, a := range r.items {
		if a.Date == date && a.Time == slot && a.Active() {
			return true
		}
	}
	return false
}

type serviceStub map[string]catalog.Service

func (s serviceStub) FindByID(ctx context.Context, id string) (catalog.Service, error) {
	svc, ok := s[id]
	if !ok {
		return catalog.Service{}, catalog.ErrNotFound
	}
	return svc, nil
}

func defaultServices() serviceStub {
	return serviceStub{
		"svc-corte": {ID: "svc-corte", Name: "Corte de Cabelo", Description: "Corte", Price: 30, DurationMinutes: 45},
		"svc-barba": {ID: "svc-barba", Name: "Barba Completa", Description: "Barba", Price: 25, DurationMinutes: 30},
	}
}

func bookingRequest(serviceID, date, slot string) CreateRequest {
	return CreateRequest{
		ServiceID:   serviceID,
		ClientName:  "João Silva",
		ClientPhone: "11999999999",
		ClientEmail: "joao@example.com",
		Date:        date,
		Time:        slot,
	}
}
