package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ma1k10/Airplanes-Repository/internal/middleware"
	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/service"
)

// PassengerHandler serves endpoints for PASSENGER accounts.  Every call
// acts on the passenger profile linked to the caller's account.
type PassengerHandler struct {
	Passengers   PassengerDirectory
	Reservations ReservationEngine
	Tickets      TicketIssuer
}

func NewPassengerHandler(passengers PassengerDirectory, reservations ReservationEngine, tickets TicketIssuer) *PassengerHandler {
	return &PassengerHandler{Passengers: passengers, Reservations: reservations, Tickets: tickets}
}

// profile loads the caller's passenger profile.  On failure it has already
// written the response and ok is false.
func (h *PassengerHandler) profile(c echo.Context) (p model.Passenger, ok bool, err error) {
	uid, found := middleware.UserID(c)
	if !found {
		return p, false, unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	p, err = h.Passengers.GetByUser(ctx, uid)
	if err != nil {
		return p, false, respondError(c, err)
	}
	return p, true, nil
}

// GetProfile handles GET /v1/profile.
func (h *PassengerHandler) GetProfile(c echo.Context) error {
	p, ok, err := h.profile(c)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// UpdateProfile handles PUT /v1/profile.
func (h *PassengerHandler) UpdateProfile(c echo.Context) error {
	uid, found := middleware.UserID(c)
	if !found {
		return unauthorized(c)
	}
	var in service.PassengerInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	p, err := h.Passengers.UpdateForUser(ctx, uid, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

type reserveReq struct {
	SeatIDs []uint64 `json:"seat_ids"`
}

// Reserve handles POST /v1/reservations {"seat_ids":[...]}.  All seats are
// held or none are; a taken seat answers 409 with its id and label.
func (h *PassengerHandler) Reserve(c echo.Context) error {
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	p, ok, err := h.profile(c)
	if !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := h.Reservations.Reserve(ctx, p.ID, req.SeatIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// MyReservations handles GET /v1/my-reservations.
func (h *PassengerHandler) MyReservations(c echo.Context) error {
	p, ok, err := h.profile(c)
	if !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Reservations.ListByPassenger(ctx, p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Cancel handles POST /v1/reservations/:id/cancel.
func (h *PassengerHandler) Cancel(c echo.Context) error {
	id, found := pathID(c, "id")
	if !found {
		return badRequest(c, "invalid reservation id")
	}
	p, ok, err := h.profile(c)
	if !ok {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	res, err := h.Reservations.CancelFor(ctx, id, p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Ticket handles GET /v1/reservations/:id/ticket.
func (h *PassengerHandler) Ticket(c echo.Context) error {
	id, found := pathID(c, "id")
	if !found {
		return badRequest(c, "invalid reservation id")
	}
	uid, found := middleware.UserID(c)
	if !found {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	doc, err := h.Tickets.Issue(ctx, id, uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

// TicketByCode handles GET /v1/tickets/:code.
func (h *PassengerHandler) TicketByCode(c echo.Context) error {
	uid, found := middleware.UserID(c)
	if !found {
		return unauthorized(c)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	doc, err := h.Tickets.Lookup(ctx, c.Param("code"), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}
