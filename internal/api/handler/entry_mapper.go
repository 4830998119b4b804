package handler

import (
	"github.com/anu235shka/movies-task/internal/core/domain"
	"github.com/anu235shka/movies-task/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createEntryRequest, createdBy string) ports.CreateEntryInput {
	return ports.CreateEntryInput{
		Title:      req.Title,
		Type:       req.Type,
		Director:   req.Director,
		Budget:     req.Budget.ptr(),
		Location:   req.Location,
		Duration:   req.Duration,
		YearOrTime: req.YearOrTime,
		PosterURL:  req.PosterURL,
		CreatedBy:  createdBy,
	}
}

func toUpdateInput(id string, req updateEntryRequest) ports.UpdateEntryInput {
	return ports.UpdateEntryInput{
		ID:         id,
		Title:      req.Title,
		Type:       req.Type,
		Director:   req.Director,
		Budget:     req.Budget.ptr(),
		Location:   req.Location,
		Duration:   req.Duration,
		YearOrTime: req.YearOrTime,
		PosterURL:  req.PosterURL,
	}
}

func toListInput(q listEntriesQuery) ports.ListEntriesInput {
	return ports.ListEntriesInput{
		Search: q.Search,
		Type:   q.Type,
		Page:   q.Page,
		Limit:  q.Limit,
	}
}

// --- Domain → Response ---

func toEntryResponse(e *domain.Entry) entryResponse {
	return entryResponse{
		ID:         e.ID,
		Title:      e.Title,
		Type:       string(e.Type),
		Director:   e.Director,
		Budget:     e.Budget,
		Location:   e.Location,
		Duration:   e.Duration,
		YearOrTime: e.YearOrTime,
		PosterURL:  e.PosterURL,
		CreatedBy:  e.CreatedBy,
		CreatedAt:  e.CreatedAt.UTC(),
		UpdatedAt:  e.UpdatedAt.UTC(),
	}
}

func toListResponse(r *ports.ListEntriesResult) listEntriesResponse {
	data := make([]entryResponse, 0, len(r.Items))
	for _, e := range r.Items {
		data = append(data, toEntryResponse(e))
	}
	return listEntriesResponse{
		Page:       r.Page,
		Limit:      r.Limit,
		Total:      r.Total,
		TotalPages: r.TotalPages,
		Data:       data,
	}
}
