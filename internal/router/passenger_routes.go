package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Ma1k10/Airplanes-Repository/internal/handler"
	"github.com/Ma1k10/Airplanes-Repository/internal/middleware"
	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

// RegisterPassenger registers PASSENGER-scoped endpoints under /v1.  All
// routes require a valid JWT and the PASSENGER role; ownership of
// reservations and tickets is checked by the services.  limit throttles
// the writes that take seat locks; pass nil to disable it.
func RegisterPassenger(e *echo.Echo, h *handler.PassengerHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePassenger),
	)
	var throttled []echo.MiddlewareFunc
	if limit != nil {
		throttled = append(throttled, limit)
	}

	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)

	g.POST("/reservations", h.Reserve, throttled...)
	g.GET("/my-reservations", h.MyReservations)
	g.POST("/reservations/:id/cancel", h.Cancel, throttled...)

	g.GET("/reservations/:id/ticket", h.Ticket)
	g.GET("/tickets/:code", h.TicketByCode)
}
