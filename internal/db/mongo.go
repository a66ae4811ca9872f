package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names shared by the mongo repos.
const (
	UsersCollection       = "users"
	ElectionsCollection   = "elections"
	CandidatesCollection  = "candidates"
	PoliticiansCollection = "politicians"
)

func NewMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetMaxPoolSize(20))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// EnsureIndexes creates the unique indexes the repos rely on for duplicate
// detection.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_email_uniq")},
		},
		ElectionsCollection: {
			{Keys: bson.D{{Key: "start_time", Value: 1}, {Key: "end_time", Value: 1}}, Options: options.Index().SetName("elections_window_idx")},
		},
		CandidatesCollection: {
			{Keys: bson.D{{Key: "election_id", Value: 1}}, Options: options.Index().SetName("candidates_election_idx")},
		},
		PoliticiansCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}, {Key: "party", Value: 1}}, Options: options.Index().SetUnique(true).SetName("politicians_name_party_uniq")},
		},
	}

	for coll, models := range indexes {
		if _, err := database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}

	return nil
}
