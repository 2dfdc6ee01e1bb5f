package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

type fixture struct {
	store    *memStore
	events   *recorder
	registry *Registry
	catalog  *Catalog
	inv      *Inventory
	dir      *Directory
	engine   *Engine
	issuer   *Issuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	events := &recorder{}
	return &fixture{
		store:    store,
		events:   events,
		registry: NewRegistry(store),
		catalog:  NewCatalog(store),
		inv:      NewInventory(store),
		dir:      NewDirectory(store),
		engine:   NewEngine(store, events),
		issuer:   NewIssuer(store),
	}
}

func (f *fixture) aircraft(t *testing.T, tail string, capacity int) model.Aircraft {
	t.Helper()
	a, err := f.registry.Create(context.Background(), AircraftInput{Model: "A320", TailNumber: tail, Capacity: capacity})
	require.NoError(t, err)
	return a
}

func (f *fixture) flight(t *testing.T, aircraftID uint64) ScheduledFlight {
	t.Helper()
	sf, err := f.catalog.Schedule(context.Background(), FlightInput{
		Origin:          "Lisbon",
		Destination:     "Porto",
		Date:            "2026-11-02",
		Time:            "08:30",
		DurationMinutes: 55,
		AircraftID:      aircraftID,
	})
	require.NoError(t, err)
	return sf
}

func (f *fixture) passenger(t *testing.T, n int, userID *uint64) model.Passenger {
	t.Helper()
	p, err := f.dir.Create(context.Background(), PassengerInput{
		FirstName:  "Ana",
		LastName:   fmt.Sprintf("Silva%d", n),
		DocumentID: fmt.Sprintf("P%07d", n),
		Email:      fmt.Sprintf("ana%d@example.com", n),
	}, userID)
	require.NoError(t, err)
	return p
}

func (f *fixture) seats(t *testing.T, flightID uint64) []model.Seat {
	t.Helper()
	seats, err := f.inv.ListSeats(context.Background(), flightID)
	require.NoError(t, err)
	return seats
}

func (f *fixture) seat(t *testing.T, id uint64) model.Seat {
	t.Helper()
	seat, ok := f.store.read().seats[id]
	require.True(t, ok, "seat %d", id)
	return seat
}
