package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/anu235shka/movies-task/internal/core/domain"
	"github.com/anu235shka/movies-task/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// maxPage keeps (page-1)*limit within int range.
const maxPage = math.MaxInt / maxLimit

// EntryService implements the shared catalog use cases.
type EntryService struct {
	repo      ports.EntryRepository
	sanitizer ports.Sanitizer
	posters   ports.PosterValidator
	log       zerolog.Logger
	now       func() time.Time
}

func NewEntryService(repo ports.EntryRepository, sanitizer ports.Sanitizer, posters ports.PosterValidator, log zerolog.Logger) *EntryService {
	return &EntryService{
		repo:      repo,
		sanitizer: sanitizer,
		posters:   posters,
		log:       log,
		now:       time.Now,
	}
}

func (s *EntryService) CreateEntry(ctx context.Context, in ports.CreateEntryInput) (*domain.Entry, error) {
	title := s.clean(in.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	typ := domain.EntryType(in.Type)
	if !typ.Valid() {
		return nil, validationf("type must be MOVIE or TV_SHOW")
	}

	if err := checkBudget(in.Budget); err != nil {
		return nil, err
	}
	poster, err := s.poster(ctx, in.PosterURL)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entry := &domain.Entry{
		Title:      title,
		Type:       typ,
		Director:   s.optional(in.Director),
		Budget:     in.Budget,
		Location:   s.optional(in.Location),
		Duration:   s.optional(in.Duration),
		YearOrTime: s.optional(in.YearOrTime),
		PosterURL:  poster,
		CreatedBy:  in.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.log.Info().Str("entry_id", entry.ID).Str("type", string(entry.Type)).Str("user_id", in.CreatedBy).Msg("entry created")
	return entry, nil
}

func (s *EntryService) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateEntry applies a partial update on top of the stored entry.
func (s *EntryService) UpdateEntry(ctx context.Context, in ports.UpdateEntryInput) (*domain.Entry, error) {
	entry, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := s.clean(*in.Title)
		if title == "" {
			return nil, validationf("title is required")
		}
		entry.Title = title
	}
	if in.Type != nil {
		typ := domain.EntryType(*in.Type)
		if !typ.Valid() {
			return nil, validationf("type must be MOVIE or TV_SHOW")
		}
		entry.Type = typ
	}
	if in.PosterURL != nil {
		poster, err := s.poster(ctx, in.PosterURL)
		if err != nil {
			return nil, err
		}
		entry.PosterURL = poster
	}
	if in.Budget != nil {
		if err := checkBudget(in.Budget); err != nil {
			return nil, err
		}
		entry.Budget = in.Budget
	}
	s.patch(&entry.Director, in.Director)
	s.patch(&entry.Location, in.Location)
	s.patch(&entry.Duration, in.Duration)
	s.patch(&entry.YearOrTime, in.YearOrTime)
	entry.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.log.Info().Str("entry_id", entry.ID).Msg("entry updated")
	return entry, nil
}

func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("entry_id", id).Msg("entry deleted")
	return nil
}

func (s *EntryService) ListEntries(ctx context.Context, in ports.ListEntriesInput) (*ports.ListEntriesResult, error) {
	filter := ports.ListEntriesFilter{
		Search: strings.TrimSpace(in.Search),
		Page:   in.Page,
		Limit:  in.Limit,
	}
	if in.Type != "" {
		typ := domain.EntryType(in.Type)
		if !typ.Valid() {
			return nil, validationf("type must be MOVIE or TV_SHOW")
		}
		filter.Type = typ
	}
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Page > maxPage {
		filter.Page = maxPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return &ports.ListEntriesResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *EntryService) clean(v string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(v))
}

// optional returns nil for absent or blank values.
func (s *EntryService) optional(v *string) *string {
	if v == nil {
		return nil
	}
	cleaned := s.clean(*v)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

func (s *EntryService) patch(dst **string, v *string) {
	if v == nil {
		return
	}
	*dst = s.optional(v)
}

func (s *EntryService) poster(ctx context.Context, raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	u := strings.TrimSpace(*raw)
	if u == "" {
		return nil, nil
	}
	if err := s.posters.ValidatePoster(ctx, u); err != nil {
		return nil, validationf("posterUrl: %v", err)
	}
	return &u, nil
}

func checkBudget(b *float64) error {
	if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
		return validationf("budget must be a number")
	}
	return nil
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}
