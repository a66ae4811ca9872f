package service

import (
	"context"
	"fmt"

	"github.com/geocoder89/electionhub/internal/auth"
	"github.com/geocoder89/electionhub/internal/clock"
	"github.com/geocoder89/electionhub/internal/domain/candidate"
	"github.com/geocoder89/electionhub/internal/domain/election"
)

type ElectionStore interface {
	Create(ctx context.Context, e election.Election) error
	// GetByID returns election.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (election.Election, error)
	List(ctx context.Context, filter election.ListFilter) ([]election.Election, error)
}

type ElectionService struct {
	elections  ElectionStore
	candidates CandidateStore
	directory  *DirectoryService
	clock      clock.Clock
}

func NewElectionService(elections ElectionStore, candidates CandidateStore, directory *DirectoryService, c clock.Clock) *ElectionService {
	return &ElectionService{
		elections:  elections,
		candidates: candidates,
		directory:  directory,
		clock:      c,
	}
}

func (s *ElectionService) now() float64 {
	return clock.Seconds(s.clock.Now())
}

func (s *ElectionService) CreateElection(ctx context.Context, caller *auth.Claims, req election.CreateElectionRequest) (string, error) {
	admin, err := auth.RequireAdmin(caller)
	if err != nil {
		return "", err
	}

	if req.StartTime == nil || req.EndTime == nil || req.BlockchainID == nil {
		return "", fmt.Errorf("%w: start_time, end_time and blockchain_id are required", election.ErrMissingFields)
	}

	if err := election.ValidateWindow(*req.StartTime, *req.EndTime); err != nil {
		return "", err
	}

	e := election.NewFromCreateRequest(req, admin.UserID, s.clock.Now().UTC())

	if err := s.elections.Create(ctx, e); err != nil {
		return "", fmt.Errorf("create election: %w", err)
	}

	return e.ID, nil
}

// ListAllElections returns every election with its derived status.
func (s *ElectionService) ListAllElections(ctx context.Context, caller *auth.Claims) ([]election.View, error) {
	if _, err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	items, err := s.elections.List(ctx, election.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}

	now := s.now()
	out := make([]election.View, 0, len(items))
	for _, e := range items {
		out = append(out, e.ViewAt(now))
	}

	return out, nil
}

// ListActiveElections returns only elections running right now.
func (s *ElectionService) ListActiveElections(ctx context.Context, caller *auth.Claims) ([]election.View, error) {
	if _, err := auth.RequireAuth(caller); err != nil {
		return nil, err
	}

	now := s.now()

	items, err := s.elections.List(ctx, election.ActiveAt(now))
	if err != nil {
		return nil, fmt.Errorf("list active elections: %w", err)
	}

	out := make([]election.View, 0, len(items))
	for _, e := range items {
		out = append(out, e.ViewAt(now))
	}

	return out, nil
}

func (s *ElectionService) AddCandidate(ctx context.Context, caller *auth.Claims, electionID string, req candidate.CreateCandidateRequest) (string, error) {
	if _, err := auth.RequireAdmin(caller); err != nil {
		return "", err
	}

	if _, err := s.elections.GetByID(ctx, electionID); err != nil {
		return "", err
	}

	var candidateID int64
	if req.CandidateID != nil {
		candidateID = *req.CandidateID
	}

	c, err := s.directory.RecordCandidate(ctx, electionID, req.Name, req.Party, candidateID)
	if err != nil {
		return "", err
	}

	return c.ID, nil
}

func (s *ElectionService) ListCandidates(ctx context.Context, caller *auth.Claims, electionID string) ([]candidate.View, error) {
	if _, err := auth.RequireAuth(caller); err != nil {
		return nil, err
	}

	if _, err := s.elections.GetByID(ctx, electionID); err != nil {
		return nil, err
	}

	items, err := s.candidates.ListByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	out := make([]candidate.View, 0, len(items))
	for _, c := range items {
		out = append(out, c.View())
	}

	return out, nil
}
