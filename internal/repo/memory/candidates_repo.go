package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/electionhub/internal/domain/candidate"
)

type CandidatesRepo struct {
	mu    sync.RWMutex
	items []candidate.Candidate
}

func NewCandidatesRepo() *CandidatesRepo {
	return &CandidatesRepo{}
}

func (r *CandidatesRepo) Create(ctx context.Context, c candidate.Candidate) error {
	r.mu.Lock()
	r.items = append(r.items, c)
	r.mu.Unlock()

	return nil
}

func (r *CandidatesRepo) ListByElection(ctx context.Context, electionID string) ([]candidate.Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]candidate.Candidate, 0)
	for _, c := range r.items {
		if c.ElectionID == electionID {
			out = append(out, c)
		}
	}

	return out, nil
}

// Count is used by tests.
func (r *CandidatesRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
