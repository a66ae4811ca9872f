package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/electionhub/internal/domain/election"
	"github.com/geocoder89/electionhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ElectionsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewElectionsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ElectionsRepo {
	return &ElectionsRepo{
		pool: pool,
		prom: prom,
	}
}

const electionColumns = `id, title, description, start_time, end_time, blockchain_id, created_by, created_at`

func (r *ElectionsRepo) Create(ctx context.Context, e election.Election) error {
	return r.prom.ObserveDB("elections.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO elections(`+electionColumns+`) VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
			e.ID, e.Title, e.Description, e.StartTime, e.EndTime, e.BlockchainID, e.CreatedBy, e.CreatedAt)
		return err
	})
}

func (r *ElectionsRepo) GetByID(ctx context.Context, id string) (election.Election, error) {
	var e election.Election

	err := r.prom.ObserveDB("elections.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT `+electionColumns+` FROM elections WHERE id = $1`, id,
		).Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.BlockchainID, &e.CreatedBy, &e.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return election.Election{}, election.ErrNotFound
		}
		return election.Election{}, err
	}

	return e, nil
}

// List renders election.ListFilter as SQL. The active predicate must stay
// identical to election.ListFilter.Matches: both edges inclusive.
func (r *ElectionsRepo) List(ctx context.Context, filter election.ListFilter) ([]election.Election, error) {
	query := `SELECT ` + electionColumns + ` FROM elections`
	var args []interface{}

	if filter.ActiveAt != nil {
		query += ` WHERE start_time <= $1 AND end_time >= $1`
		args = append(args, *filter.ActiveAt)
	}

	query += ` ORDER BY created_at ASC, id ASC`

	out := make([]election.Election, 0)

	err := r.prom.ObserveDB("elections.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e election.Election

			err = rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.BlockchainID, &e.CreatedBy, &e.CreatedAt)
			if err != nil {
				return err
			}

			out = append(out, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
