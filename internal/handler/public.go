package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/service"
)

// PublicHandler serves the unauthenticated catalog: flights, their seat
// maps and the fleet.
type PublicHandler struct {
	Fleet   AircraftRegistry
	Flights FlightCatalog
	Seats   SeatInventory
}

func NewPublicHandler(fleet AircraftRegistry, flights FlightCatalog, seats SeatInventory) *PublicHandler {
	return &PublicHandler{Fleet: fleet, Flights: flights, Seats: seats}
}

// ListFlights handles GET /v1/flights.
func (h *PublicHandler) ListFlights(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	flights, err := h.Flights.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, flights)
}

// GetFlight handles GET /v1/flights/:id.
func (h *PublicHandler) GetFlight(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid flight id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	f, err := h.Flights.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// ListSeats handles GET /v1/flights/:id/seats.  The optional available
// query parameter (true or false) filters on the availability flag.
func (h *PublicHandler) ListSeats(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid flight id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	var (
		seats []model.Seat
		err   error
	)
	switch q := c.QueryParam("available"); q {
	case "":
		seats, err = h.Seats.ListSeats(ctx, id)
	default:
		available, perr := strconv.ParseBool(q)
		if perr != nil {
			return badRequest(c, "available must be true or false")
		}
		if available {
			seats, err = h.Seats.ListAvailable(ctx, id)
		} else {
			seats, err = h.Seats.ListOccupied(ctx, id)
		}
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, seats)
}

// SearchFlights handles GET /v1/search/flights with the optional query
// parameters origin, destination, from, to (dates), available=true,
// page and page_size.
func (h *PublicHandler) SearchFlights(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	onlyAvailable, _ := strconv.ParseBool(c.QueryParam("available"))

	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := h.Flights.Search(ctx, service.SearchInput{
		Origin:        c.QueryParam("origin"),
		Destination:   c.QueryParam("destination"),
		From:          c.QueryParam("from"),
		To:            c.QueryParam("to"),
		OnlyAvailable: onlyAvailable,
		Page:          page,
		PageSize:      ps,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// SeatSummary handles GET /v1/flights/:id/seats/summary.
func (h *PublicHandler) SeatSummary(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid flight id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	sum, err := h.Seats.Summary(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

// ListAircraft handles GET /v1/aircraft.
func (h *PublicHandler) ListAircraft(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	fleet, err := h.Fleet.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, fleet)
}

// ListAircraftFlights handles GET /v1/aircraft/:id/flights.
func (h *PublicHandler) ListAircraftFlights(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid aircraft id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	flights, err := h.Flights.ListByAircraft(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, flights)
}
