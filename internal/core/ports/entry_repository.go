package ports

import (
	"context"
	"math"

	"github.com/anu235shka/movies-task/internal/core/domain"
)

// ListEntriesFilter carries the normalised query for listing entries.
type ListEntriesFilter struct {
	Search string           // optional: case-insensitive substring of title, director or location
	Type   domain.EntryType // optional: exact type match
	Page   int              // 1-based
	Limit  int              // rows per page, already capped by the service
}

// Offset returns the number of rows to skip for the filter's page,
// saturating at math.MaxInt instead of overflowing.
func (f ListEntriesFilter) Offset() int {
	if f.Page <= 1 || f.Limit <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// EntryRepository defines persistence operations for catalog entries.
// Lookups by an id the store cannot parse report domain.ErrEntryNotFound.
type EntryRepository interface {
	// Create stores e and assigns its ID.
	Create(ctx context.Context, e *domain.Entry) error
	FindByID(ctx context.Context, id string) (*domain.Entry, error)
	// Update replaces every mutable field of the stored entry with e's values.
	Update(ctx context.Context, e *domain.Entry) error
	Delete(ctx context.Context, id string) error
	// List returns one page ordered by created_at desc and the total match count.
	List(ctx context.Context, filter ListEntriesFilter) ([]*domain.Entry, int64, error)
}
