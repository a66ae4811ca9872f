package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/electionhub/internal/domain/election"
)

type ElectionsRepo struct {
	mu    sync.RWMutex
	items []election.Election
	byID  map[string]int
}

func NewElectionsRepo() *ElectionsRepo {
	return &ElectionsRepo{
		byID: make(map[string]int),
	}
}

func (r *ElectionsRepo) Create(ctx context.Context, e election.Election) error {
	r.mu.Lock()
	r.byID[e.ID] = len(r.items)
	r.items = append(r.items, e)
	r.mu.Unlock()

	return nil
}

func (r *ElectionsRepo) GetByID(ctx context.Context, id string) (election.Election, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return election.Election{}, election.ErrNotFound
	}

	return r.items[idx], nil
}

func (r *ElectionsRepo) List(ctx context.Context, filter election.ListFilter) ([]election.Election, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]election.Election, 0, len(r.items))
	for _, e := range r.items {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}

	return out, nil
}
