package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anu235shka/movies-task/internal/core/domain"
	"github.com/anu235shka/movies-task/internal/core/ports"
)

const entriesCollection = "entries"

var _ ports.EntryRepository = (*EntryRepository)(nil)

type EntryRepository struct {
	col *mongo.Collection
}

func NewEntryRepository(db *mongo.Database) *EntryRepository {
	return &EntryRepository{col: db.Collection(entriesCollection)}
}

type mongoEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Type       string             `bson:"type"`
	Director   *string            `bson:"director,omitempty"`
	Budget     *float64           `bson:"budget,omitempty"`
	Location   *string            `bson:"location,omitempty"`
	Duration   *string            `bson:"duration,omitempty"`
	YearOrTime *string            `bson:"year_or_time,omitempty"`
	PosterURL  *string            `bson:"poster_url,omitempty"`
	CreatedBy  string             `bson:"created_by,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func toMongoEntry(e *domain.Entry) mongoEntry {
	return mongoEntry{
		Title:      e.Title,
		Type:       string(e.Type),
		Director:   e.Director,
		Budget:     e.Budget,
		Location:   e.Location,
		Duration:   e.Duration,
		YearOrTime: e.YearOrTime,
		PosterURL:  e.PosterURL,
		CreatedBy:  e.CreatedBy,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (m *mongoEntry) toDomain() *domain.Entry {
	return &domain.Entry{
		ID:         m.ID.Hex(),
		Title:      m.Title,
		Type:       domain.EntryType(m.Type),
		Director:   m.Director,
		Budget:     m.Budget,
		Location:   m.Location,
		Duration:   m.Duration,
		YearOrTime: m.YearOrTime,
		PosterURL:  m.PosterURL,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

// Create inserts a new entry document and assigns its id.
func (r *EntryRepository) Create(ctx context.Context, e *domain.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoEntry(e))
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert entry: unexpected id type %T", res.InsertedID)
	}
	e.ID = oid.Hex()
	return nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id string) (*domain.Entry, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoEntry
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return m.toDomain(), nil
}

// Update replaces the stored document; absent optional fields are dropped.
func (r *EntryRepository) Update(ctx context.Context, e *domain.Entry) error {
	oid, ok := objectID(e.ID)
	if !ok {
		return domain.ErrEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoEntry(e)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrEntryNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// List returns a page of entries matching filter and the total count.
func (r *EntryRepository) List(ctx context.Context, filter ports.ListEntriesFilter) ([]*domain.Entry, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := entryQuery(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find entries: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoEntry
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode entries: %w", err)
	}

	items := make([]*domain.Entry, len(docs))
	for i := range docs {
		items[i] = docs[i].toDomain()
	}
	return items, total, nil
}

// entryQuery translates a list filter into a Mongo query document.
func entryQuery(f ports.ListEntriesFilter) bson.M {
	query := bson.M{}
	if f.Type != "" {
		query["type"] = string(f.Type)
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"director": pattern},
			bson.M{"location": pattern},
		}
	}
	return query
}

// EnsureIndexes creates the indexes used by List.
func (r *EntryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
