package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/electionhub/internal/domain/politician"
)

type politicianKey struct {
	name  string
	party string
}

// PoliticiansRepo holds the lock across check and insert, which makes
// InsertIfAbsent atomic.
type PoliticiansRepo struct {
	mu    sync.RWMutex
	items []politician.Politician
	keys  map[politicianKey]struct{}
}

func NewPoliticiansRepo() *PoliticiansRepo {
	return &PoliticiansRepo{
		keys: make(map[politicianKey]struct{}),
	}
}

func (r *PoliticiansRepo) InsertIfAbsent(ctx context.Context, p politician.Politician) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := politicianKey{p.Name, p.Party}
	if _, ok := r.keys[k]; ok {
		return false, nil
	}

	r.keys[k] = struct{}{}
	r.items = append(r.items, p)
	return true, nil
}

func (r *PoliticiansRepo) Create(ctx context.Context, p politician.Politician) error {
	inserted, _ := r.InsertIfAbsent(ctx, p)
	if !inserted {
		return politician.ErrAlreadyExists
	}
	return nil
}

func (r *PoliticiansRepo) List(ctx context.Context) ([]politician.Politician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]politician.Politician, len(r.items))
	copy(out, r.items)
	return out, nil
}
