package service

import (
	"context"
	"fmt"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
)

// Inventory answers seat questions for a flight and stamps out its seats.
// Availability flags are written only by the reservation engine.
type Inventory struct {
	store Store
}

func NewInventory(store Store) *Inventory { return &Inventory{store: store} }

// Provision creates capacity available seats for a flight that has none,
// all in one transaction.  A flight that already has seats yields
// ErrConflict and nothing is written.
func (i *Inventory) Provision(ctx context.Context, flightID uint64, capacity int) (int, error) {
	if capacity < 1 {
		return 0, invalidField("capacity", "must be at least 1")
	}
	err := i.store.InTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.LockFlight(ctx, flightID); err != nil {
			return err
		}
		n, err := tx.CountSeats(ctx, flightID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("flight %d already has %d seats: %w", flightID, n, repository.ErrConflict)
		}
		return provisionSeats(ctx, tx, flightID, capacity)
	})
	if err != nil {
		return 0, err
	}
	return capacity, nil
}

func provisionSeats(ctx context.Context, tx repository.Tx, flightID uint64, capacity int) error {
	return tx.InsertSeats(ctx, flightID, SeatLabels(capacity))
}

// ListSeats returns every seat of the flight in boarding order.
func (i *Inventory) ListSeats(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	return i.listSeats(ctx, flightID, nil)
}

// ListAvailable returns the seats that can still be reserved.
func (i *Inventory) ListAvailable(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	available := true
	return i.listSeats(ctx, flightID, &available)
}

// ListOccupied returns the seats bound to an active reservation.
func (i *Inventory) ListOccupied(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	available := false
	return i.listSeats(ctx, flightID, &available)
}

func (i *Inventory) listSeats(ctx context.Context, flightID uint64, available *bool) ([]model.Seat, error) {
	if _, err := i.store.GetFlight(ctx, flightID); err != nil {
		return nil, err
	}
	return i.store.ListSeats(ctx, flightID, available)
}

// TotalSeats returns the capacity of the aircraft operating the flight.
// It is not a count of seat rows.
func (i *Inventory) TotalSeats(ctx context.Context, flightID uint64) (int, error) {
	return i.store.FlightCapacity(ctx, flightID)
}

// Summary reports total capacity against the current seat split.
func (i *Inventory) Summary(ctx context.Context, flightID uint64) (model.SeatSummary, error) {
	total, err := i.TotalSeats(ctx, flightID)
	if err != nil {
		return model.SeatSummary{}, err
	}
	seats, err := i.store.ListSeats(ctx, flightID, nil)
	if err != nil {
		return model.SeatSummary{}, err
	}
	sum := model.SeatSummary{FlightID: flightID, Total: total}
	for _, s := range seats {
		if s.Available {
			sum.Available++
		} else {
			sum.Occupied++
		}
	}
	return sum, nil
}
