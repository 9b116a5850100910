package repository

import (
	"context"
	"sync"
	"time"

	"github.com/deppfellow/person-api/internal/lib/objectid"
	"github.com/deppfellow/person-api/internal/model/person"
)

// MemoryPersonRepository keeps persons in process memory. Intended for local
// development and tests; data does not survive a restart.
type MemoryPersonRepository struct {
	mu      sync.RWMutex
	persons map[string]person.Person
}

func NewMemoryPersonRepository() *MemoryPersonRepository {
	return &MemoryPersonRepository{persons: make(map[string]person.Person)}
}

func (r *MemoryPersonRepository) Create(ctx context.Context, name string) (*person.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := person.Person{
		ID:        objectid.NewAt(now),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.persons[p.ID] = p
	r.mu.Unlock()

	return &p, nil
}

func (r *MemoryPersonRepository) FindByID(ctx context.Context, id string) (*person.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	p, ok := r.persons[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrPersonNotFound
	}
	return &p, nil
}

func (r *MemoryPersonRepository) FindByIDAndUpdate(ctx context.Context, id, name string) (*person.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.persons[id]
	if !ok {
		return nil, ErrPersonNotFound
	}

	p.Name = name
	p.UpdatedAt = time.Now().UTC()
	r.persons[id] = p

	return &p, nil
}

func (r *MemoryPersonRepository) FindByIDAndDelete(ctx context.Context, id string) (*person.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.persons[id]
	if !ok {
		return nil, ErrPersonNotFound
	}
	delete(r.persons, id)

	return &p, nil
}
