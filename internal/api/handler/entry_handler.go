package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anu235shka/movies-task/internal/api/metrics"
	"github.com/anu235shka/movies-task/internal/core/domain"
	"github.com/anu235shka/movies-task/internal/core/ports"
)

// EntryHandler serves the shared catalog. Every route sits behind the Auth
// middleware.
type EntryHandler struct {
	service ports.EntryService
}

func NewEntryHandler(service ports.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// List handles GET /api/entries.
//
// @Summary      List entries
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Param        search  query     string  false  "Case-insensitive match on title, director or location"
// @Param        type    query     string  false  "MOVIE or TV_SHOW"
// @Success      200     {object}  listEntriesResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/entries [get]
func (h *EntryHandler) List(c echo.Context) error {
	var q listEntriesQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.ListEntries(c.Request().Context(), toListInput(q))
	metrics.EntryOperationsTotal.WithLabelValues("list", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get handles GET /api/entries/:id.
//
// @Summary      Get an entry
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry id"
// @Success      200  {object}  entryResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/entries/{id} [get]
func (h *EntryHandler) Get(c echo.Context) error {
	entry, err := h.service.GetEntry(c.Request().Context(), c.Param("id"))
	metrics.EntryOperationsTotal.WithLabelValues("get", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

// Create handles POST /api/entries.
//
// @Summary      Create an entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Replays the first response for a repeated key"
// @Param        body             body      createEntryRequest  true   "Entry fields"
// @Success      201              {object}  entryResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /api/entries [post]
func (h *EntryHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.service.CreateEntry(c.Request().Context(), toCreateInput(req, identity.UserID))
	metrics.EntryOperationsTotal.WithLabelValues("create", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEntryResponse(entry))
}

// Update handles PUT /api/entries/:id. Only supplied fields change.
//
// @Summary      Update an entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Entry id"
// @Param        body  body      updateEntryRequest  true  "Fields to change"
// @Success      200   {object}  entryResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/entries/{id} [put]
func (h *EntryHandler) Update(c echo.Context) error {
	var req updateEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.service.UpdateEntry(c.Request().Context(), toUpdateInput(c.Param("id"), req))
	metrics.EntryOperationsTotal.WithLabelValues("update", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

// Delete handles DELETE /api/entries/:id.
//
// @Summary      Delete an entry
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry id"
// @Success      200  {object}  deleteResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/entries/{id} [delete]
func (h *EntryHandler) Delete(c echo.Context) error {
	err := h.service.DeleteEntry(c.Request().Context(), c.Param("id"))
	metrics.EntryOperationsTotal.WithLabelValues("delete", outcome(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{Success: true})
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
