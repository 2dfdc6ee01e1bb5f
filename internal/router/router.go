// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Ma1k10/Airplanes-Repository/internal/handler"
	"github.com/Ma1k10/Airplanes-Repository/internal/middleware"
	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

// RegisterRoutes registers routes that do not require authentication and
// are not part of the API: currently the health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the authentication routes.  Register, login,
// refresh and logout live under /v1/auth and need no session; /v1/me
// requires a valid access token of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStaff, model.RolePassenger),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated catalog endpoints.  cache
// wraps the read-only routes; pass nil to serve them uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if cache != nil {
		mw = append(mw, cache)
	}
	g := e.Group("/v1", mw...)

	g.GET("/flights", p.ListFlights)
	g.GET("/flights/:id", p.GetFlight)
	// ?available=true|false filters on the seat flag
	g.GET("/flights/:id/seats", p.ListSeats)
	g.GET("/flights/:id/seats/summary", p.SeatSummary)
	g.GET("/search/flights", p.SearchFlights)

	g.GET("/aircraft", p.ListAircraft)
	g.GET("/aircraft/:id/flights", p.ListAircraftFlights)
}
