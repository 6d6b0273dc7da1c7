package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barbearia-backend/internal/catalog"
	"barbearia-backend/internal/schedule"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrSlotTaken       = errors.New("slot not available")
)

// ServiceFinder resolves the service an appointment is booked against.
type ServiceFinder interface {
	FindByID(ctx context.Context, id string) (catalog.Service, error)
}

// Manager owns appointments and derives slot availability from them.
type Manager struct {
	repo     Repository
	services ServiceFinder
	now      func() time.Time
	newID    func() string
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithIDFunc(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

func NewManager(repo Repository, services ServiceFinder, opts ...Option) *Manager {
	m := &Manager{
		repo:     repo,
		services: services,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	items, err := m.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return items, nil
}

// Create books a slot. The early HasActive check gives the common case a
// cheap answer; the repository insert is what actually guards the slot when
// two requests race past the check.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (Appointment, error) {
	serviceID := strings.TrimSpace(req.ServiceID)
	svc, err := m.services.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Appointment{}, ErrServiceNotFound
		}
		return Appointment{}, fmt.Errorf("find service: %w", err)
	}

	taken, err := m.repo.HasActive(ctx, req.Date, req.Time)
	if err != nil {
		return Appointment{}, fmt.Errorf("check slot: %w", err)
	}
	if taken {
		return Appointment{}, ErrSlotTaken
	}

	item := Appointment{
		ID:          m.newID(),
		ServiceID:   serviceID,
		ServiceName: svc.Name,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Status:      StatusConfirmed,
		CreatedAt:   m.now().UTC().Truncate(time.Millisecond),
	}

	if err := m.repo.Insert(ctx, item); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return Appointment{}, ErrSlotTaken
		}
		return Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return item, nil
}

func (m *Manager) Get(ctx context.Context, id string) (Appointment, error) {
	item, err := m.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, fmt.Errorf("find appointment: %w", err)
	}
	return item, nil
}

// Cancel marks the appointment cancelled and returns it. Cancelling twice
// succeeds without a distinct signal.
func (m *Manager) Cancel(ctx context.Context, id string) (Appointment, error) {
	item, err := m.repo.Cancel(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, fmt.Errorf("cancel appointment: %w", err)
	}
	return item, nil
}

// AvailableSlots marks every slot of the daily grid free unless an active
// appointment on date holds that exact label. Service durations are not
// taken into account.
func (m *Manager) AvailableSlots(ctx context.Context, date string) ([]schedule.Slot, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, err
	}

	booked, err := m.repo.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list booked slots: %w", err)
	}

	reserved := make(map[string]bool, len(booked))
	for _, a := range booked {
		reserved[a.Time] = true
	}
	return schedule.MarkReserved(schedule.DailyGrid(), reserved), nil
}
