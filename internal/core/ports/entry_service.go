package ports

import (
	"context"

	"github.com/anu235shka/movies-task/internal/core/domain"
)

// CreateEntryInput carries the fields for a new entry. Nil or empty optional
// fields are stored as absent.
type CreateEntryInput struct {
	Title      string
	Type       string
	Director   *string
	Budget     *float64
	Location   *string
	Duration   *string
	YearOrTime *string
	PosterURL  *string
	CreatedBy  string
}

// UpdateEntryInput is a partial update: nil fields are left untouched and an
// empty optional string clears the stored value.
type UpdateEntryInput struct {
	ID         string
	Title      *string
	Type       *string
	Director   *string
	Budget     *float64
	Location   *string
	Duration   *string
	YearOrTime *string
	PosterURL  *string
}

// ListEntriesInput carries raw list parameters; the service applies defaults.
type ListEntriesInput struct {
	Search string
	Type   string
	Page   int
	Limit  int
}

// ListEntriesResult is one page of entries.
type ListEntriesResult struct {
	Items      []*domain.Entry
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// EntryService defines use-case operations for the catalog.
type EntryService interface {
	CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context, input ListEntriesInput) (*ListEntriesResult, error)
}
