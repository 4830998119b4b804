package domain

import "time"

// EntryType classifies a catalog entry.
type EntryType string

const (
	EntryMovie  EntryType = "MOVIE"
	EntryTVShow EntryType = "TV_SHOW"
)

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	return t == EntryMovie || t == EntryTVShow
}

// Entry is a single movie or TV show in the shared catalog.
// Optional fields are nil when absent.
type Entry struct {
	ID         string
	Title      string
	Type       EntryType
	Director   *string
	Budget     *float64
	Location   *string
	Duration   *string
	YearOrTime *string
	PosterURL  *string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
