package repository

import (
	"context"
	"slices"
	"sync"
)

// Memory implements CRUD over a map keyed by the entity key.
type Memory[K comparable, E any] struct {
	mu    sync.RWMutex
	items map[K]E
	m     mapper[K, E]
}

func newMemory[K comparable, E any](m mapper[K, E]) *Memory[K, E] {
	return &Memory[K, E]{items: make(map[K]E), m: m}
}

// NewMemory builds the four repositories without a database.
func NewMemory() *Repositories {
	return &Repositories{
		Departments: newMemory(departmentMapper),
		Positions:   newMemory(positionMapper),
		DeptPosRels: newMemory(deptPosRelMapper),
		Users:       newMemory(userMapper),
	}
}

func (r *Memory[K, E]) FindByID(_ context.Context, id K) (E, error) {
	var zero E

	if r.m.emptyID(id) {
		return zero, ErrEmptyKey
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return zero, ErrNotFound
	}
	return e, nil
}

func (r *Memory[K, E]) Save(_ context.Context, e E) error {
	id := r.m.key(e)
	if r.m.emptyID(id) {
		return ErrEmptyKey
	}

	r.mu.Lock()
	r.items[id] = e
	r.mu.Unlock()
	return nil
}

func (r *Memory[K, E]) DeleteByID(_ context.Context, id K) error {
	if r.m.emptyID(id) {
		return ErrEmptyKey
	}

	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
	return nil
}

func (r *Memory[K, E]) FindAll(_ context.Context) ([]E, error) {
	r.mu.RLock()
	keys := make([]K, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, r.m.compare)

	out := make([]E, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.items[k])
	}
	r.mu.RUnlock()

	return out, nil
}
