package testfixtures

import (
	"context"
	"sort"
	"sync"

	"barbearia-backend/internal/booking"
	"barbearia-backend/internal/catalog"
)

// ServiceStore is an in-memory catalog.Repository.
type ServiceStore struct {
	mu    sync.Mutex
	items map[string]catalog.Service
}

func NewServiceStore(seed ...catalog.Service) *ServiceStore {
	s := &ServiceStore{items: map[string]catalog.Service{}}
	for _, item := range seed {
		s.items[item.ID] = item
	}
	return s
}

func (s *ServiceStore) List(ctx context.Context) ([]catalog.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Service, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *ServiceStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *ServiceStore) FindByID(ctx context.Context, id string) (catalog.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return catalog.Service{}, catalog.ErrNotFound
	}
	return item, nil
}

func (s *ServiceStore) Insert(ctx context.Context, items ...catalog.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.items[item.ID] = item
	}
	return nil
}

func (s *ServiceStore) InsertMissing(ctx context.Context, items ...catalog.Service) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, item := range items {
		if _, ok := s.items[item.ID]; ok {
			continue
		}
		s.items[item.ID] = item
		added++
	}
	return added, nil
}

func (s *ServiceStore) Replace(ctx context.Context, item catalog.Service) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return false, nil
	}
	s.items[item.ID] = item
	return true, nil
}

func (s *ServiceStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

// AppointmentStore is an in-memory booking.Repository that rejects a second
// active appointment for the same (date, time).
type AppointmentStore struct {
	mu    sync.Mutex
	items map[string]booking.Appointment
}

func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{items: map[string]booking.Appointment{}}
}

func (s *AppointmentStore) List(ctx context.Context, filter booking.ListFilter) ([]booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]booking.Appointment, 0, len(s.items))
	for _, a := range s.items {
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

func (s *AppointmentStore) FindByID(ctx context.Context, id string) (booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return booking.Appointment{}, booking.ErrNotFound
	}
	return a, nil
}

func (s *AppointmentStore) ListActiveByDate(ctx context.Context, date string) ([]booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]booking.Appointment, 0)
	for _, a := range s.items {
		if a.Date == date && a.Active() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *AppointmentStore) HasActive(ctx context.Context, date, slot string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked(date, slot), nil
}

func (s *AppointmentStore) Insert(ctx context.Context, item booking.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.Active() && s.activeLocked(item.Date, item.Time) {
		return booking.ErrSlotTaken
	}
	s.items[item.ID] = item
	return nil
}

func (s *AppointmentStore) Cancel(ctx context.Context, id string) (booking.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return booking.Appointment{}, booking.ErrNotFound
	}
	a.Status = booking.StatusCancelled
	s.items[id] = a
	return a, nil
}

func (s *AppointmentStore) activeLocked(date, slot string) bool {
	for _, a := range s.items {
		if a.Date == date && a.Time == slot && a.Active() {
			return true
		}
	}
	return false
}

var (
	_ catalog.Repository = (*ServiceStore)(nil)
	_ booking.Repository = (*AppointmentStore)(nil)
)
