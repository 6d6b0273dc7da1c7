package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("service not found")

// Manager owns the service catalog.
type Manager struct {
	repo  Repository
	newID func() string
}

type Option func(*Manager)

// WithIDFunc replaces the uuid generator, mostly for tests.
func WithIDFunc(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

func NewManager(repo Repository, opts ...Option) *Manager {
	m := &Manager{
		repo:  repo,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) List(ctx context.Context) ([]Service, error) {
	items, err := m.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return items, nil
}

func (m *Manager) Create(ctx context.Context, req UpsertRequest) (Service, error) {
	item := fromRequest(m.newID(), req)
	if err := m.repo.Insert(ctx, item); err != nil {
		return Service{}, fmt.Errorf("insert service: %w", err)
	}
	return item, nil
}

func (m *Manager) Get(ctx context.Context, id string) (Service, error) {
	item, err := m.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Service{}, ErrNotFound
		}
		return Service{}, fmt.Errorf("find service: %w", err)
	}
	return item, nil
}

// Update overwrites every field except the id.
func (m *Manager) Update(ctx context.Context, id string, req UpsertRequest) (Service, error) {
	item := fromRequest(strings.TrimSpace(id), req)
	matched, err := m.repo.Replace(ctx, item)
	if err != nil {
		return Service{}, fmt.Errorf("replace service: %w", err)
	}
	if !matched {
		return Service{}, ErrNotFound
	}
	return item, nil
}

// Delete removes the service. Appointments that reference it keep their
// copied service name.
func (m *Manager) Delete(ctx context.Context, id string) error {
	deleted, err := m.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func fromRequest(id string, req UpsertRequest) Service {
	item := Service{ID: id}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		item.DurationMinutes = *req.DurationMinutes
	}
	return item
}
