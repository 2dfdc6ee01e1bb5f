package service

import (
	"context"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
)

// Store is the persistence the services depend on.  *repository.Store
// implements it on MySQL.  Writes happen only inside InTx.
type Store interface {
	InTx(ctx context.Context, fn func(tx repository.Tx) error) error

	GetAircraft(ctx context.Context, id uint64) (model.Aircraft, error)
	ListAircraft(ctx context.Context) ([]model.Aircraft, error)

	GetFlight(ctx context.Context, id uint64) (model.Flight, error)
	ListFlights(ctx context.Context) ([]model.Flight, error)
	ListFlightsByAircraft(ctx context.Context, aircraftID uint64) ([]model.Flight, error)
	SearchFlights(ctx context.Context, q repository.FlightSearchQuery) ([]repository.FlightSearchRow, int64, error)

	ListSeats(ctx context.Context, flightID uint64, available *bool) ([]model.Seat, error)
	FlightCapacity(ctx context.Context, flightID uint64) (int, error)

	GetPassenger(ctx context.Context, id uint64) (model.Passenger, error)
	GetPassengerByUser(ctx context.Context, userID uint64) (model.Passenger, error)
	ListPassengers(ctx context.Context) ([]model.Passenger, error)

	GetReservation(ctx context.Context, id uint64) (model.Reservation, error)
	ListReservationsByPassenger(ctx context.Context, passengerID uint64) ([]model.Reservation, error)
	FlightManifest(ctx context.Context, flightID uint64) ([]model.ManifestEntry, error)
	TicketByReservation(ctx context.Context, reservationID uint64) (model.TicketDocument, error)
	TicketByCode(ctx context.Context, code string) (model.TicketDocument, error)
}

var _ Store = (*repository.Store)(nil)
