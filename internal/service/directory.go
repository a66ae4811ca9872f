package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geocoder89/electionhub/internal/auth"
	"github.com/geocoder89/electionhub/internal/clock"
	"github.com/geocoder89/electionhub/internal/domain/candidate"
	"github.com/geocoder89/electionhub/internal/domain/politician"
)

type CandidateStore interface {
	Create(ctx context.Context, c candidate.Candidate) error
	ListByElection(ctx context.Context, electionID string) ([]candidate.Candidate, error)
}

// PoliticianStore keys entries by (name, party).
type PoliticianStore interface {
	// InsertIfAbsent must be atomic: concurrent calls with the same key
	// produce at most one row.
	InsertIfAbsent(ctx context.Context, p politician.Politician) (bool, error)
	// Create returns politician.ErrAlreadyExists when the key is taken.
	Create(ctx context.Context, p politician.Politician) error
	List(ctx context.Context) ([]politician.Politician, error)
}

// DirectoryService links per-election candidates to the global politician
// roster. The candidate path and the admin path have different duplicate
// policies: the first skips silently, the second fails.
type DirectoryService struct {
	candidates  CandidateStore
	politicians PoliticianStore
	clock       clock.Clock
	log         *slog.Logger
}

func NewDirectoryService(candidates CandidateStore, politicians PoliticianStore, c clock.Clock, log *slog.Logger) *DirectoryService {
	return &DirectoryService{
		candidates:  candidates,
		politicians: politicians,
		clock:       c,
		log:         log,
	}
}

// RecordCandidate always inserts a new candidate row, then makes sure the
// person is in the directory. A failure of the directory step is logged and
// does not undo the candidate.
func (s *DirectoryService) RecordCandidate(ctx context.Context, electionID, name, party string, candidateID int64) (candidate.Candidate, error) {
	c := candidate.New(electionID, name, party, candidateID, s.clock.Now().UTC())

	if err := s.candidates.Create(ctx, c); err != nil {
		return candidate.Candidate{}, fmt.Errorf("create candidate: %w", err)
	}

	if err := s.EnsureInDirectory(ctx, name, party); err != nil {
		s.log.WarnContext(ctx, "directory upsert failed", "election_id", electionID, "candidate", c.ID, "err", err)
	}

	return c, nil
}

func (s *DirectoryService) EnsureInDirectory(ctx context.Context, name, party string) error {
	inserted, err := s.politicians.InsertIfAbsent(ctx, politician.New(name, party, "", s.clock.Now().UTC()))

	if err != nil {
		return fmt.Errorf("insert politician if absent: %w", err)
	}

	if inserted {
		s.log.DebugContext(ctx, "politician added to directory", "name", name, "party", party)
	}

	return nil
}

func (s *DirectoryService) AddToDirectoryDirectly(ctx context.Context, name, party, imageURL string) (politician.Politician, error) {
	p := politician.New(name, party, imageURL, s.clock.Now().UTC())

	if err := s.politicians.Create(ctx, p); err != nil {
		if errors.Is(err, politician.ErrAlreadyExists) {
			return politician.Politician{}, err
		}
		return politician.Politician{}, fmt.Errorf("create politician: %w", err)
	}

	return p, nil
}

func (s *DirectoryService) ListDirectory(ctx context.Context, caller *auth.Claims) ([]politician.View, error) {
	if _, err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	people, err := s.politicians.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list politicians: %w", err)
	}

	out := make([]politician.View, 0, len(people))
	for _, p := range people {
		out = append(out, p.View())
	}

	return out, nil
}

func (s *DirectoryService) AddToDirectory(ctx context.Context, caller *auth.Claims, req politician.CreatePoliticianRequest) (string, error) {
	if _, err := auth.RequireAdmin(caller); err != nil {
		return "", err
	}

	p, err := s.AddToDirectoryDirectly(ctx, req.Name, req.Party, req.ImageURL)
	if err != nil {
		return "", err
	}

	return p.ID, nil
}
