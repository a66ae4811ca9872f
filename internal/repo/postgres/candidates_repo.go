package postgres

import (
	"context"

	"github.com/geocoder89/electionhub/internal/domain/candidate"
	"github.com/geocoder89/electionhub/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CandidatesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCandidatesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CandidatesRepo {
	return &CandidatesRepo{pool: pool, prom: prom}
}

func (r *CandidatesRepo) Create(ctx context.Context, c candidate.Candidate) error {
	return r.prom.ObserveDB("candidates.create", func() error {
		_, err := r.pool.Exec(ctx, `
		INSERT INTO candidates (id, election_id, name, party, candidate_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, c.ID, c.ElectionID, c.Name, c.Party, c.CandidateID, c.CreatedAt)
		return err
	})
}

func (r *CandidatesRepo) ListByElection(ctx context.Context, electionID string) ([]candidate.Candidate, error) {
	out := make([]candidate.Candidate, 0)

	err := r.prom.ObserveDB("candidates.list_by_election", func() error {
		rows, err := r.pool.Query(ctx, `
		SELECT id, election_id, name, party, candidate_id, created_at
		FROM candidates
		WHERE election_id = $1
		ORDER BY created_at ASC, id ASC
	`, electionID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c candidate.Candidate
			if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Party, &c.CandidateID, &c.CreatedAt); err != nil {
				return err
			}
			out = append(out, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
