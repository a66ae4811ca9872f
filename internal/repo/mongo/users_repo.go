package mongo

import (
	"context"
	"errors"

	"github.com/geocoder89/electionhub/internal/db"
	"github.com/geocoder89/electionhub/internal/domain/user"
	"github.com/geocoder89/electionhub/internal/observability"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type UsersRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewUsersRepo(database *mongo.Database, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{coll: database.Collection(db.UsersCollection), prom: prom}
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var doc userDoc

	err := r.prom.ObserveDB("users.get_by_email", func() error {
		return r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return doc.toDomain()
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	doc := userDoc{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}

	err := r.prom.ObserveDB("users.create", func() error {
		_, e := r.coll.InsertOne(ctx, doc)
		return e
	})

	if mongo.IsDuplicateKeyError(err) {
		return user.ErrEmailTaken
	}

	return err
}

func (r *UsersRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	var res *mongo.UpdateResult

	err := r.prom.ObserveDB("users.update_password_hash", func() error {
		var e error
		res, e = r.coll.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: id}},
			bson.D{{Key: "$set", Value: bson.D{{Key: "password", Value: hash}}}},
		)
		return e
	})

	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return user.ErrNotFound
	}

	return nil
}
