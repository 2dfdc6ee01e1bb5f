package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
)

// Catalog owns the flight schedule.
type Catalog struct {
	store Store
}

func NewCatalog(store Store) *Catalog { return &Catalog{store: store} }

// ScheduledFlight is the result of Schedule.
type ScheduledFlight struct {
	Flight    model.Flight `json:"flight"`
	SeatCount int          `json:"seat_count"`
}

// Schedule creates a flight and provisions one seat per unit of the
// aircraft's current capacity.  Flight and seats commit together.
func (c *Catalog) Schedule(ctx context.Context, in FlightInput) (ScheduledFlight, error) {
	f, err := ValidateFlight(in)
	if err != nil {
		return ScheduledFlight{}, err
	}
	var capacity int
	err = c.store.InTx(ctx, func(tx repository.Tx) error {
		a, err := tx.LockAircraft(ctx, f.AircraftID)
		if err != nil {
			return err
		}
		if err := tx.InsertFlight(ctx, &f); err != nil {
			return err
		}
		capacity = a.Capacity
		return provisionSeats(ctx, tx, f.ID, capacity)
	})
	if err != nil {
		return ScheduledFlight{}, err
	}
	return ScheduledFlight{Flight: f, SeatCount: capacity}, nil
}

func (c *Catalog) Get(ctx context.Context, id uint64) (model.Flight, error) {
	return c.store.GetFlight(ctx, id)
}

// ListAll returns every flight ordered by departure date, then time.
func (c *Catalog) ListAll(ctx context.Context) ([]model.Flight, error) {
	return c.store.ListFlights(ctx)
}

// ListByAircraft returns the flights operated by one aircraft.
func (c *Catalog) ListByAircraft(ctx context.Context, aircraftID uint64) ([]model.Flight, error) {
	if _, err := c.store.GetAircraft(ctx, aircraftID); err != nil {
		return nil, err
	}
	return c.store.ListFlightsByAircraft(ctx, aircraftID)
}

// Delete removes a flight with its seats.  Flights with reservations, of
// any status, are kept and ErrConflict is returned.
func (c *Catalog) Delete(ctx context.Context, id uint64) error {
	return c.store.InTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.LockFlight(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountReservationsByFlight(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("flight %d has %d reservations: %w", id, n, repository.ErrConflict)
		}
		return tx.DeleteFlight(ctx, id)
	})
}

// Search page sizes.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SearchInput filters the schedule.  From and To are optional dates in
// model.DateLayout; Page starts at 1.
type SearchInput struct {
	Origin        string
	Destination   string
	From          string
	To            string
	OnlyAvailable bool
	Page          int
	PageSize      int
}

// SearchPage is one page of search results.
type SearchPage struct {
	Data     []repository.FlightSearchRow `json:"data"`
	Total    int64                        `json:"total"`
	Page     int                          `json:"page"`
	PageSize int                          `json:"page_size"`
}

// Search returns flights matching in, ordered by departure.  Out of range
// page values are clamped rather than rejected.
func (c *Catalog) Search(ctx context.Context, in SearchInput) (SearchPage, error) {
	q := repository.FlightSearchQuery{
		Origin:        strings.TrimSpace(in.Origin),
		Destination:   strings.TrimSpace(in.Destination),
		OnlyAvailable: in.OnlyAvailable,
		Page:          max(in.Page, 1),
		PageSize:      in.PageSize,
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	q.PageSize = min(q.PageSize, maxPageSize)

	var err error
	if q.From, err = optionalDate("from", in.From); err != nil {
		return SearchPage{}, err
	}
	if q.To, err = optionalDate("to", in.To); err != nil {
		return SearchPage{}, err
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return SearchPage{}, invalidField("to", "must not be before from")
	}

	rows, total, err := c.store.SearchFlights(ctx, q)
	if err != nil {
		return SearchPage{}, err
	}
	return SearchPage{Data: rows, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

func optionalDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return nil, invalidField(field, "must match layout "+model.DateLayout)
	}
	return &d, nil
}
