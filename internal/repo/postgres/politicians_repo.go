package postgres

import (
	"context"

	"github.com/geocoder89/electionhub/internal/domain/politician"
	"github.com/geocoder89/electionhub/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PoliticiansRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPoliticiansRepo(pool *pgxpool.Pool, prom *observability.Prom) *PoliticiansRepo {
	return &PoliticiansRepo{pool: pool, prom: prom}
}

// InsertIfAbsent leans on the (name, party) unique index, so concurrent
// callers cannot both insert.
func (r *PoliticiansRepo) InsertIfAbsent(ctx context.Context, p politician.Politician) (bool, error) {
	var inserted bool

	err := r.prom.ObserveDB("politicians.insert_if_absent", func() error {
		tag, err := r.pool.Exec(ctx, `
		INSERT INTO politicians (id, name, party, image_url, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (name, party) DO NOTHING
	`, p.ID, p.Name, p.Party, p.ImageURL, p.CreatedAt)
		if err != nil {
			return err
		}

		inserted = tag.RowsAffected() == 1
		return nil
	})

	return inserted, err
}

func (r *PoliticiansRepo) Create(ctx context.Context, p politician.Politician) error {
	err := r.prom.ObserveDB("politicians.create", func() error {
		_, e := r.pool.Exec(ctx, `
		INSERT INTO politicians (id, name, party, image_url, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, p.ID, p.Name, p.Party, p.ImageURL, p.CreatedAt)
		return e
	})

	if err != nil {
		if isUniqueViolation(err, constraintPoliticians) {
			return politician.ErrAlreadyExists
		}
		return err
	}

	return nil
}

func (r *PoliticiansRepo) List(ctx context.Context) ([]politician.Politician, error) {
	out := make([]politician.Politician, 0)

	err := r.prom.ObserveDB("politicians.list", func() error {
		rows, err := r.pool.Query(ctx, `
		SELECT id, name, party, image_url, created_at
		FROM politicians
		ORDER BY name ASC, party ASC
	`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p politician.Politician
			if err := rows.Scan(&p.ID, &p.Name, &p.Party, &p.ImageURL, &p.CreatedAt); err != nil {
				return err
			}
			out = append(out, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
