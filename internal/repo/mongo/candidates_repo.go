package mongo

import (
	"context"

	"github.com/geocoder89/electionhub/internal/db"
	"github.com/geocoder89/electionhub/internal/domain/candidate"
	"github.com/geocoder89/electionhub/internal/observability"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CandidatesRepo struct {
	coll *mongo.Collection
	prom *observability.Prom
}

func NewCandidatesRepo(database *mongo.Database, prom *observability.Prom) *CandidatesRepo {
	return &CandidatesRepo{coll: database.Collection(db.CandidatesCollection), prom: prom}
}

func (r *CandidatesRepo) Create(ctx context.Context, c candidate.Candidate) error {
	doc := candidateDoc{
		ID:          c.ID,
		ElectionID:  c.ElectionID,
		Name:        c.Name,
		Party:       c.Party,
		CandidateID: c.CandidateID,
		CreatedAt:   c.CreatedAt,
	}

	return r.prom.ObserveDB("candidates.create", func() error {
		_, err := r.coll.InsertOne(ctx, doc)
		return err
	})
}

func (r *CandidatesRepo) ListByElection(ctx context.Context, electionID string) ([]candidate.Candidate, error) {
	var docs []candidateDoc

	err := r.prom.ObserveDB("candidates.list_by_election", func() error {
		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

		cur, err := r.coll.Find(ctx, bson.D{{Key: "election_id", Value: electionID}}, opts)
		if err != nil {
			return err
		}

		return cur.All(ctx, &docs)
	})

	if err != nil {
		return nil, err
	}

	out := make([]candidate.Candidate, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}

	return out, nil
}
