package mongo_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/electionhub/internal/db"
	"github.com/geocoder89/electionhub/internal/domain/election"
	"github.com/geocoder89/electionhub/internal/domain/politician"
	"github.com/geocoder89/electionhub/internal/domain/user"
	mongorepo "github.com/geocoder89/electionhub/internal/repo/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func setupDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	client, err := db.NewMongo(uri)
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}

	ctx := context.Background()
	database := client.Database("electionhub_test_" + uuid.NewString()[:8])

	t.Cleanup(func() {
		_ = database.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	if err := db.EnsureIndexes(ctx, database); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	return database
}

func TestMongoUsersRepo(t *testing.T) {
	database := setupDatabase(t)
	repo := mongorepo.NewUsersRepo(database, nil)
	ctx := context.Background()

	u := user.User{ID: uuid.NewString(), Email: "v@x.com", PasswordHash: "h", Role: user.RoleVoter, CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}

	u.ID = uuid.NewString()
	if err := repo.Create(ctx, u); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("duplicate err = %v", err)
	}

	if _, err := repo.GetByEmail(ctx, "none@x.com"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("missing err = %v", err)
	}

	stored, err := repo.GetByEmail(ctx, "v@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := repo.UpdatePasswordHash(ctx, stored.ID, "h2"); err != nil {
		t.Fatalf("update hash: %v", err)
	}
	if got, _ := repo.GetByEmail(ctx, "v@x.com"); got.PasswordHash != "h2" {
		t.Fatalf("hash after update = %q, want h2", got.PasswordHash)
	}
	if err := repo.UpdatePasswordHash(ctx, uuid.NewString(), "h3"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("update unknown user err = %v", err)
	}
}

func TestMongoUsersRepo_UnreadableRole(t *testing.T) {
	database := setupDatabase(t)
	repo := mongorepo.NewUsersRepo(database, nil)
	ctx := context.Background()

	_, err := database.Collection(db.UsersCollection).InsertOne(ctx, bson.D{
		{Key: "_id", Value: uuid.NewString()},
		{Key: "email", Value: "odd@x.com"},
		{Key: "password", Value: "h"},
		{Key: "role", Value: "superuser"},
		{Key: "created_at", Value: time.Now().UTC()},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = repo.GetByEmail(ctx, "odd@x.com")
	if err == nil || errors.Is(err, user.ErrInvalidRole) {
		t.Fatalf("unreadable role err = %v, want a non-client error", err)
	}
}

func TestMongoElectionsRepo_ActiveFilter(t *testing.T) {
	database := setupDatabase(t)
	repo := mongorepo.NewElectionsRepo(database, nil)
	ctx := context.Background()

	for _, w := range [][2]float64{{100, 200}, {50, 100}, {101, 200}} {
		e := election.Election{ID: uuid.NewString(), Title: "t", StartTime: w[0], EndTime: w[1], CreatedAt: time.Now().UTC()}
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.List(ctx, election.ActiveAt(100))
	if err != nil || len(got) != 2 {
		t.Fatalf("active = (%d, %v), want 2", len(got), err)
	}

	if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, election.ErrNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}

func TestMongoPoliticiansRepo(t *testing.T) {
	database := setupDatabase(t)
	repo := mongorepo.NewPoliticiansRepo(database, nil)
	ctx := context.Background()

	ok, err := repo.InsertIfAbsent(ctx, politician.New("A", "Party X", "", time.Now().UTC()))
	if err != nil || !ok {
		t.Fatalf("first insert = (%v, %v)", ok, err)
	}

	ok, err = repo.InsertIfAbsent(ctx, politician.New("A", "Party X", "", time.Now().UTC()))
	if err != nil || ok {
		t.Fatalf("second insert = (%v, %v)", ok, err)
	}

	if err := repo.Create(ctx, politician.New("A", "Party X", "", time.Now().UTC())); !errors.Is(err, politician.ErrAlreadyExists) {
		t.Fatalf("create duplicate err = %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil || len(items) != 1 {
		t.Fatalf("list = (%d, %v)", len(items), err)
	}
}
