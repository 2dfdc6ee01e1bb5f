package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ma1k10/Airplanes-Repository/internal/service"
)

// StaffHandler serves the back-office endpoints: fleet, schedule, seat
// provisioning, passengers, manifests and reservation status changes.
// Routes are expected behind JWTAuth and RequireRole(STAFF).
type StaffHandler struct {
	Fleet        AircraftRegistry
	Flights      FlightCatalog
	Seats        SeatInventory
	Passengers   PassengerDirectory
	Reservations ReservationEngine
}

// NewStaffHandler panics on a nil dependency.
func NewStaffHandler(fleet AircraftRegistry, flights FlightCatalog, seats SeatInventory, passengers PassengerDirectory, reservations ReservationEngine) *StaffHandler {
	if fleet == nil || flights == nil || seats == nil || passengers == nil || reservations == nil {
		panic("nil dependency passed to NewStaffHandler")
	}
	return &StaffHandler{Fleet: fleet, Flights: flights, Seats: seats, Passengers: passengers, Reservations: reservations}
}

// ----- aircraft -----

func (h *StaffHandler) CreateAircraft(c echo.Context) error {
	var in service.AircraftInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	a, err := h.Fleet.Create(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *StaffHandler) GetAircraft(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid aircraft id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	a, err := h.Fleet.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *StaffHandler) UpdateAircraft(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid aircraft id")
	}
	var in service.AircraftInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	a, err := h.Fleet.Update(ctx, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteAircraft answers 409 while flights still reference the aircraft.
func (h *StaffHandler) DeleteAircraft(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid aircraft id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Fleet.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- flights and seats -----

// ScheduleFlight handles POST /v1/flights.  The response carries the flight
// and the number of seats provisioned for it.
func (h *StaffHandler) ScheduleFlight(c echo.Context) error {
	var in service.FlightInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	sf, err := h.Flights.Schedule(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, sf)
}

func (h *StaffHandler) DeleteFlight(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid flight id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Flights.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ProvisionSeats handles POST /v1/flights/:id/seats/provision for flights
// that have no seats yet.  Without a capacity in the body the aircraft's
// current capacity is used.
func (h *StaffHandler) ProvisionSeats(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid flight id")
	}
	var body struct {
		Capacity int `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	capacity := body.Capacity
	if capacity == 0 {
		f, err := h.Flights.Get(ctx, id)
		if err != nil {
			return respondError(c, err)
		}
		a, err := h.Fleet.Get(ctx, f.AircraftID)
		if err != nil {
			return respondError(c, err)
		}
		capacity = a.Capacity
	}
	n, err := h.Seats.Provision(ctx, id, capacity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"flight_id": id, "seat_count": n})
}

// Manifest handles GET /v1/flights/:id/manifest.
func (h *StaffHandler) Manifest(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid flight id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	entries, err := h.Passengers.Manifest(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"flight_id": id, "passengers": entries})
}

// ----- passengers -----

func (h *StaffHandler) ListPassengers(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Passengers.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *StaffHandler) CreatePassenger(c echo.Context) error {
	var in service.PassengerInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	p, err := h.Passengers.Create(ctx, in, nil)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *StaffHandler) GetPassenger(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid passenger id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	p, err := h.Passengers.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *StaffHandler) UpdatePassenger(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid passenger id")
	}
	var in service.PassengerInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	p, err := h.Passengers.Update(ctx, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *StaffHandler) DeletePassenger(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid passenger id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Passengers.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PassengerReservations handles GET /v1/passengers/:id/reservations.
func (h *StaffHandler) PassengerReservations(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid passenger id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Reservations.ListByPassenger(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// ----- reservations -----

// SetReservationStatus handles PATCH /v1/staff/reservations/:id/status
// with a body like {"status":"CONFIRMED"}.
func (h *StaffHandler) SetReservationStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badBody(c)
	}
	status, err := service.ParseStatus(body.Status)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := h.Reservations.SetStatus(ctx, id, status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *StaffHandler) GetReservation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := h.Reservations.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *StaffHandler) DeleteReservation(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Reservations.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
