package catalog

import (
	"context"
	"sort"
	"sync"
)

type memoryRepo struct {
	mu    sync.Mutex
	items map[string]Service
	err   error

	// afterCount runs outside the lock once Count has read the size.
	afterCount func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]Service{}}
}

func (r *memoryRepo) List(ctx context.Context) ([]Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Service, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	if r.err != nil {
		r.mu.Unlock()
		return 0, r.err
	}
	n := int64(len(r.items))
	r.mu.Unlock()
	if r.afterCount != nil {
		r.afterCount()
	}
	return n, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Service{}, r.err
	}
	s, ok := r.items[id]
	if !ok {
		return Service{}, ErrNotFound
	}
	return s, nil
}

func (r *memoryRepo) Insert(ctx context.Context, items ...Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, s := range items {
		r.items[s.ID] = s
	}
	return nil
}

func (r *memoryRepo) InsertMissing(ctx context.Context, items ...Service) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	added := 0
	for _, s := range items {
		if _, ok := r.items[s.ID]; ok {
			continue
		}
		r.items[s.ID] = s
		added++
	}
	return added, nil
}

func (r *memoryRepo) Replace(ctx context.Context, item Service) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.items[item.ID]; !ok {
		return false, nil
	}
	r.items[item.ID] = item
	return true, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func upsert(name, description string, price float64, duration int) UpsertRequest {
	return UpsertRequest{
		Name:            strPtr(name),
		Description:     strPtr(description),
		Price:           floatPtr(price),
		DurationMinutes: intPtr(duration),
	}
}
