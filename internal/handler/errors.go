package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
	"github.com/Ma1k10/Airplanes-Repository/internal/service"
)

// requestTimeout bounds the database work of one request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// respondError is the single place service and repository errors become
// HTTP responses.  Unknown errors are logged and reported as 500 without
// detail.
func respondError(c echo.Context, err error) error {
	var (
		verr        *service.ValidationError
		unavailable *service.SeatUnavailableError
	)
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrInvalidSelection):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &unavailable):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":      "seat not available",
			"seat_id":    unavailable.SeatID,
			"seat_label": unavailable.Label,
		})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrDuplicateTailNumber),
		errors.Is(err, repository.ErrDuplicateDocument),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrAircraftInUse):
		return c.JSON(http.StatusConflict, echo.Map{"error": rootMessage(err)})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "timed out"})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// rootMessage returns the sentinel's text without the wrapped detail
// (tail numbers, emails) that callers should not echo back.
func rootMessage(err error) string {
	for _, s := range []error{
		repository.ErrDuplicateTailNumber,
		repository.ErrDuplicateDocument,
		repository.ErrDuplicateEmail,
		repository.ErrEmailExists,
		repository.ErrAircraftInUse,
	} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return err.Error()
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
}
