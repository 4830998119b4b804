package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anu235shka/movies-task/internal/core/domain"
	"github.com/anu235shka/movies-task/internal/core/ports"
)

func TestEntryQuery_Empty(t *testing.T) {
	if q := entryQuery(ports.ListEntriesFilter{}); len(q) != 0 {
		t.Fatalf("expected empty query, got %v", q)
	}
}

func TestEntryQuery_TypeAndSearch(t *testing.T) {
	q := entryQuery(ports.ListEntriesFilter{Type: domain.EntryMovie, Search: "a.b (c)"})

	if q["type"] != "MOVIE" {
		t.Fatalf("expected type filter, got %v", q["type"])
	}
	or, ok := q["$or"].(bson.A)
	if !ok || len(or) != 3 {
		t.Fatalf("expected three-way $or, got %v", q["$or"])
	}
	title := or[0].(bson.M)["title"].(primitive.Regex)
	if title.Pattern != `a\.b \(c\)` || title.Options != "i" {
		t.Fatalf("search must be escaped and case-insensitive, got %+v", title)
	}
}

func TestMongoEntry_RoundTrip(t *testing.T) {
	director := "Denis Villeneuve"
	budget := 165.0
	now := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	in := &domain.Entry{
		Title:     "Dune",
		Type:      domain.EntryMovie,
		Director:  &director,
		Budget:    &budget,
		CreatedBy: "u1",
		CreatedAt: now,
		UpdatedAt: now,
	}

	doc := toMongoEntry(in)
	doc.ID = primitive.NewObjectID()
	out := doc.toDomain()

	if out.ID != doc.ID.Hex() || out.Title != "Dune" || out.Type != domain.EntryMovie {
		t.Fatalf("unexpected entry: %+v", out)
	}
	if out.Director == nil || *out.Director != director || out.Budget == nil || *out.Budget != budget {
		t.Fatalf("optional fields lost: %+v", out)
	}
	if out.Location != nil || out.PosterURL != nil {
		t.Fatalf("absent fields must stay nil")
	}
}

func TestObjectID(t *testing.T) {
	if _, ok := objectID("not-hex"); ok {
		t.Fatalf("expected invalid id to be rejected")
	}
	oid := primitive.NewObjectID()
	if got, ok := objectID(oid.Hex()); !ok || got != oid {
		t.Fatalf("expected %s to parse", oid.Hex())
	}
}
