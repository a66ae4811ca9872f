package candidate

import (
	"time"

	"github.com/google/uuid"
)

// Candidate belongs to exactly one election. Duplicates are allowed.
type Candidate struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	Name        string    `json:"name"`
	Party       string    `json:"party"`
	CandidateID int64     `json:"candidate_id"` // external on-chain reference
	CreatedAt   time.Time `json:"created_at"`
}

type View struct {
	ID          string `json:"id"`
	CandidateID int64  `json:"candidate_id"`
	Name        string `json:"name"`
	Party       string `json:"party"`
}

func (c Candidate) View() View {
	return View{ID: c.ID, CandidateID: c.CandidateID, Name: c.Name, Party: c.Party}
}

type CreateCandidateRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Party       string `json:"party" binding:"required,max=200"`
	CandidateID *int64 `json:"candidate_id" binding:"required"`
}

func New(electionID, name, party string, candidateID int64, now time.Time) Candidate {
	return Candidate{
		ID:          uuid.NewString(),
		ElectionID:  electionID,
		Name:        name,
		Party:       party,
		CandidateID: candidateID,
		CreatedAt:   now,
	}
}
