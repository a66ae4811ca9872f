package mongo

import (
	"context"
	"errors"

	"github.com/geocoder89/electionhub/internal/db"
	"github.com/geocoder89/electionhub/internal/domain/election"
	"github.com/geocoder89/electionhub/internal/observability"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ElectionsRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewElectionsRepo(database *mongo.Database, prom *observability.Prom) *ElectionsRepo {
	return &ElectionsRepo{coll: database.Collection(db.ElectionsCollection), prom: prom}
}

func (r *ElectionsRepo) Create(ctx context.Context, e election.Election) error {
	return r.prom.ObserveDB("elections.create", func() error {
		_, err := r.coll.InsertOne(ctx, electionToDoc(e))
		return err
	})
}

func (r *ElectionsRepo) GetByID(ctx context.Context, id string) (election.Election, error) {
	var doc electionDoc

	err := r.prom.ObserveDB("elections.get_by_id", func() error {
		return r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	})

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return election.Election{}, election.ErrNotFound
		}
		return election.Election{}, err
	}

	return doc.toDomain(), nil
}

// filterDoc mirrors election.ListFilter.Matches.
func filterDoc(f election.ListFilter) bson.D {
	if f.ActiveAt == nil {
		return bson.D{}
	}

	now := *f.ActiveAt
	return bson.D{
		{Key: "start_time", Value: bson.D{{Key: "$lte", Value: now}}},
		{Key: "end_time", Value: bson.D{{Key: "$gte", Value: now}}},
	}
}

func (r *ElectionsRepo) List(ctx context.Context, filter election.ListFilter) ([]election.Election, error) {
	var docs []electionDoc

	err := r.prom.ObserveDB("elections.list", func() error {
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

		cur, err := r.coll.Find(ctx, filterDoc(filter), opts)
		if err != nil {
			return err
		}

		return cur.All(ctx, &docs)
	})

	if err != nil {
		return nil, err
	}

	out := make([]election.Election, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}

	return out, nil
}
