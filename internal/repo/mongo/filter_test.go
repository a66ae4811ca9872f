package mongo

import (
	"testing"

	"github.com/geocoder89/electionhub/internal/domain/election"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFilterDoc(t *testing.T) {
	if got := filterDoc(election.ListFilter{}); len(got) != 0 {
		t.Fatalf("empty filter rendered as %v", got)
	}

	got := filterDoc(election.ActiveAt(150))
	want := bson.D{
		{Key: "start_time", Value: bson.D{{Key: "$lte", Value: 150.0}}},
		{Key: "end_time", Value: bson.D{{Key: "$gte", Value: 150.0}}},
	}

	gotBytes, err := bson.Marshal(got)
	if err != nil {
		t.Fatal(err)
	}
	wantBytes, err := bson.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}

	if string(gotBytes) != string(wantBytes) {
		t.Fatalf("filter = %v, want %v", got, want)
	}
}
