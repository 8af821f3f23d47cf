package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/review-api/internal/api/middleware"
	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

// actor returns the caller resolved by the Authenticate middleware.
func actor(c echo.Context) domain.Actor {
	return middleware.ActorFrom(c)
}

// pathID parses a numeric path parameter. Anything that is not a positive
// integer cannot name a stored object, so it is reported as 404.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return id, nil
}

// pageRequest reads the page and limit query parameters. Missing or
// out-of-range values fall back to the defaults.
func pageRequest(c echo.Context) (ports.PageRequest, error) {
	var p ports.PageRequest
	err := echo.QueryParamsBinder(c).
		Int("page", &p.Page).
		Int("limit", &p.Limit).
		BindError()
	if err != nil {
		return p, domain.NewValidationError("page", "page and limit must be integers")
	}
	return p.Normalize(), nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("", "invalid payload")
	}
	return c.Validate(req)
}
