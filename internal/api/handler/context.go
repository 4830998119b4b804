package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anu235shka/movies-task/internal/api/middleware"
	"github.com/anu235shka/movies-task/internal/core/ports"
)

// ctxIdentity returns the caller injected by the Auth middleware. A missing
// identity means the route was mounted outside the gate.
func ctxIdentity(c echo.Context) (ports.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
