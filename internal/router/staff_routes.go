package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Ma1k10/Airplanes-Repository/internal/handler"
	"github.com/Ma1k10/Airplanes-Repository/internal/middleware"
	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

// RegisterStaff registers STAFF-scoped endpoints under /v1.  All routes
// require a valid JWT and the STAFF role.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStaff),
	)

	// ---- Fleet ----
	// Listing is public (GET /v1/aircraft).
	g.POST("/aircraft", s.CreateAircraft)
	g.GET("/aircraft/:id", s.GetAircraft)
	g.PUT("/aircraft/:id", s.UpdateAircraft)
	g.DELETE("/aircraft/:id", s.DeleteAircraft)

	// ---- Schedule and seats ----
	g.POST("/flights", s.ScheduleFlight)
	g.DELETE("/flights/:id", s.DeleteFlight)
	g.POST("/flights/:id/seats/provision", s.ProvisionSeats)
	g.GET("/flights/:id/manifest", s.Manifest)

	// ---- Passengers ----
	g.GET("/passengers", s.ListPassengers)
	g.POST("/passengers", s.CreatePassenger)
	g.GET("/passengers/:id", s.GetPassenger)
	g.PUT("/passengers/:id", s.UpdatePassenger)
	g.DELETE("/passengers/:id", s.DeletePassenger)
	g.GET("/passengers/:id/reservations", s.PassengerReservations)

	// ---- Reservations ----
	g.GET("/staff/reservations/:id", s.GetReservation)
	g.PATCH("/staff/reservations/:id/status", s.SetReservationStatus)
	g.DELETE("/staff/reservations/:id", s.DeleteReservation)
}
