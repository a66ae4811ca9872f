package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/electionhub/internal/domain/user"
	"github.com/geocoder89/electionhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	var role string

	err := r.prom.ObserveDB("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, email, password_hash, role, created_at
         FROM users
         WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&role,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	u.Role, err = user.ParseRole(role)
	if err != nil {
		// a bad stored row is a server fault, not a client input error
		return user.User{}, fmt.Errorf("user %s has unreadable role %q: %v", u.ID, role, err)
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	err := r.prom.ObserveDB("users.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, role, created_at)
			VALUES ($1,$2,$3,$4,$5)`,
			u.ID, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt,
		)
		return e
	})

	if err != nil {
		if isUniqueViolation(err, constraintUsersEmail) {
			return user.ErrEmailTaken
		}
		return err
	}

	return nil
}

func (r *UsersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	var affected int64

	err := r.prom.ObserveDB("users.update_password_hash", func() error {
		tag, e := r.pool.Exec(ctx,
			`UPDATE users SET password_hash = $2 WHERE id = $1`,
			id, hash,
		)
		affected = tag.RowsAffected()
		return e
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return user.ErrNotFound
	}

	return nil
}
