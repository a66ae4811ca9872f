package mongo

import (
	"context"

	"github.com/geocoder89/electionhub/internal/db"
	"github.com/geocoder89/electionhub/internal/domain/politician"
	"github.com/geocoder89/electionhub/internal/observability"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type PoliticiansRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewPoliticiansRepo(database *mongo.Database, prom *observability.Prom) *PoliticiansRepo {
	return &PoliticiansRepo{coll: database.Collection(db.PoliticiansCollection), prom: prom}
}

// InsertIfAbsent is a single upsert with $setOnInsert. With the unique
// (name, party) index a racing upsert either matches the winner or fails with
// a duplicate key error; both mean "already there".
func (r *PoliticiansRepo) InsertIfAbsent(ctx context.Context, p politician.Politician) (bool, error) {
	var inserted bool

	err := r.prom.ObserveDB("politicians.insert_if_absent", func() error {
		filter := bson.D{{Key: "name", Value: p.Name}, {Key: "party", Value: p.Party}}
		update := bson.D{{Key: "$setOnInsert", Value: politicianToDoc(p)}}

		res, err := r.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil
			}
			return err
		}

		inserted = res.UpsertedCount == 1
		return nil
	})

	return inserted, err
}

func (r *PoliticiansRepo) Create(ctx context.Context, p politician.Politician) error {
	err := r.prom.ObserveDB("politicians.create", func() error {
		_, e := r.coll.InsertOne(ctx, politicianToDoc(p))
		return e
	})

	if mongo.IsDuplicateKeyError(err) {
		return politician.ErrAlreadyExists
	}

	return err
}

func (r *PoliticiansRepo) List(ctx context.Context) ([]politician.Politician, error) {
	var docs []politicianDoc

	err := r.prom.ObserveDB("politicians.list", func() error {
		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "party", Value: 1}})

		cur, err := r.coll.Find(ctx, bson.D{}, opts)
		if err != nil {
			return err
		}

		return cur.All(ctx, &docs)
	})

	if err != nil {
		return nil, err
	}

	out := make([]politician.Politician, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}

	return out, nil
}
