package mongo

import (
	"fmt"
	"time"

	"github.com/geocoder89/electionhub/internal/domain/candidate"
	"github.com/geocoder89/electionhub/internal/domain/election"
	"github.com/geocoder89/electionhub/internal/domain/politician"
	"github.com/geocoder89/electionhub/internal/domain/user"
)

// Documents reuse the field names of the original collections, but ids are
// UUID strings and created_at is a BSON date. Records written with ObjectID
// ids or numeric timestamps do not decode and have to be migrated first.

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
}

// toDomain fails on a stored role outside the known set. The error does not
// wrap user.ErrInvalidRole, which is reserved for client input.
func (d userDoc) toDomain() (user.User, error) {
	role, err := user.ParseRole(d.Role)
	if err != nil {
		return user.User{}, fmt.Errorf("user %s has unreadable role %q: %v", d.ID, d.Role, err)
	}

	return user.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         role,
		CreatedAt:    d.CreatedAt,
	}, nil
}

type electionDoc struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	StartTime    float64   `bson:"start_time"`
	EndTime      float64   `bson:"end_time"`
	BlockchainID int64     `bson:"blockchain_id"`
	CreatedBy    string    `bson:"created_by"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d electionDoc) toDomain() election.Election {
	return election.Election{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		BlockchainID: d.BlockchainID,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt,
	}
}

func electionToDoc(e election.Election) electionDoc {
	return electionDoc{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		BlockchainID: e.BlockchainID,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
	}
}

type candidateDoc struct {
	ID          string    `bson:"_id"`
	ElectionID  string    `bson:"election_id"`
	Name        string    `bson:"name"`
	Party       string    `bson:"party"`
	CandidateID int64     `bson:"candidate_id"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d candidateDoc) toDomain() candidate.Candidate {
	return candidate.Candidate{
		ID:          d.ID,
		ElectionID:  d.ElectionID,
		Name:        d.Name,
		Party:       d.Party,
		CandidateID: d.CandidateID,
		CreatedAt:   d.CreatedAt,
	}
}

type politicianDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Party     string    `bson:"party"`
	ImageURL  string    `bson:"image_url"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d politicianDoc) toDomain() politician.Politician {
	return politician.Politician{
		ID:        d.ID,
		Name:      d.Name,
		Party:     d.Party,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt,
	}
}

func politicianToDoc(p politician.Politician) politicianDoc {
	return politicianDoc{
		ID:        p.ID,
		Name:      p.Name,
		Party:     p.Party,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}
