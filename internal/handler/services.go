package handler

import (
	"context"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/service"
)

// The handlers depend on these narrow views of the services so they can be
// tested with mocks.  The service package's concrete types satisfy them.

type AircraftRegistry interface {
	Create(ctx context.Context, in service.AircraftInput) (model.Aircraft, error)
	Update(ctx context.Context, id uint64, in service.AircraftInput) (model.Aircraft, error)
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (model.Aircraft, error)
	List(ctx context.Context) ([]model.Aircraft, error)
}

type FlightCatalog interface {
	Schedule(ctx context.Context, in service.FlightInput) (service.ScheduledFlight, error)
	Get(ctx context.Context, id uint64) (model.Flight, error)
	ListAll(ctx context.Context) ([]model.Flight, error)
	ListByAircraft(ctx context.Context, aircraftID uint64) ([]model.Flight, error)
	Search(ctx context.Context, in service.SearchInput) (service.SearchPage, error)
	Delete(ctx context.Context, id uint64) error
}

type SeatInventory interface {
	Provision(ctx context.Context, flightID uint64, capacity int) (int, error)
	ListSeats(ctx context.Context, flightID uint64) ([]model.Seat, error)
	ListAvailable(ctx context.Context, flightID uint64) ([]model.Seat, error)
	ListOccupied(ctx context.Context, flightID uint64) ([]model.Seat, error)
	Summary(ctx context.Context, flightID uint64) (model.SeatSummary, error)
}

type PassengerDirectory interface {
	Create(ctx context.Context, in service.PassengerInput, userID *uint64) (model.Passenger, error)
	Update(ctx context.Context, id uint64, in service.PassengerInput) (model.Passenger, error)
	UpdateForUser(ctx context.Context, userID uint64, in service.PassengerInput) (model.Passenger, error)
	Get(ctx context.Context, id uint64) (model.Passenger, error)
	GetByUser(ctx context.Context, userID uint64) (model.Passenger, error)
	List(ctx context.Context) ([]model.Passenger, error)
	Delete(ctx context.Context, id uint64) error
	Manifest(ctx context.Context, flightID uint64) ([]model.ManifestEntry, error)
}

type ReservationEngine interface {
	Reserve(ctx context.Context, passengerID uint64, seatIDs []uint64) (service.ReservationResult, error)
	CancelFor(ctx context.Context, reservationID, passengerID uint64) (model.Reservation, error)
	SetStatus(ctx context.Context, reservationID uint64, status model.ReservationStatus) (model.Reservation, error)
	Delete(ctx context.Context, reservationID uint64) error
	Get(ctx context.Context, id uint64) (model.Reservation, error)
	ListByPassenger(ctx context.Context, passengerID uint64) ([]model.Reservation, error)
}

type TicketIssuer interface {
	Issue(ctx context.Context, reservationID, userID uint64) (model.TicketDocument, error)
	Lookup(ctx context.Context, code string, userID uint64) (model.TicketDocument, error)
}

type AccountCreator interface {
	Signup(ctx context.Context, in service.SignupInput) (model.User, model.Passenger, error)
	CreateAccount(ctx context.Context, in service.AccountInput) (model.User, error)
}

var (
	_ AircraftRegistry   = (*service.Registry)(nil)
	_ FlightCatalog      = (*service.Catalog)(nil)
	_ SeatInventory      = (*service.Inventory)(nil)
	_ PassengerDirectory = (*service.Directory)(nil)
	_ ReservationEngine  = (*service.Engine)(nil)
	_ TicketIssuer       = (*service.Issuer)(nil)
	_ AccountCreator     = (*service.Accounts)(nil)
)
