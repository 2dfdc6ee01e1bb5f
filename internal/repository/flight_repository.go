package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

// FlightRepo provides persistence for scheduled flights.  Seats of a
// flight live in the seats table and are handled by SeatRepo; deleting a
// flight cascades to them.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a new FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

const flightColumns = `id, origin, destination, departure_date, departure_time, duration_minutes, aircraft_id, created_at`

func scanFlight(row interface{ Scan(...any) error }) (model.Flight, error) {
	var f model.Flight
	var clock string
	err := row.Scan(&f.ID, &f.Origin, &f.Destination, &f.DepartureDate, &clock,
		&f.DurationMinutes, &f.AircraftID, &f.CreatedAt)
	f.DepartureTime = trimSeconds(clock)
	return f, err
}

// trimSeconds cuts a TIME value (HH:MM:SS) down to HH:MM.
func trimSeconds(clock string) string {
	if strings.Count(clock, ":") == 2 {
		return clock[:strings.LastIndex(clock, ":")]
	}
	return clock
}

func (r *FlightRepo) get(ctx context.Context, q querier, id uint64, lock string) (model.Flight, error) {
	f, err := scanFlight(q.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights WHERE id = ?`+lock, id))
	if err != nil {
		return model.Flight{}, fmt.Errorf("flight %d: %w", id, notFound(err))
	}
	return f, nil
}

func (r *FlightRepo) list(ctx context.Context, where string, args ...any) ([]model.Flight, error) {
	q := `SELECT ` + flightColumns + ` FROM flights` + where +
		` ORDER BY departure_date, departure_time, id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetByID returns a flight or ErrNotFound.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (model.Flight, error) {
	return r.get(ctx, r.db, id, "")
}

// GetForUpdateTx loads a flight and locks its row.
func (r *FlightRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Flight, error) {
	return r.get(ctx, tx, id, " FOR UPDATE")
}

// ListAll returns every flight ordered by departure date and time.
func (r *FlightRepo) ListAll(ctx context.Context) ([]model.Flight, error) {
	return r.list(ctx, "")
}

// ListByAircraft returns the flights operated by one aircraft, ordered by
// departure date and time.
func (r *FlightRepo) ListByAircraft(ctx context.Context, aircraftID uint64) ([]model.Flight, error) {
	return r.list(ctx, ` WHERE aircraft_id = ?`, aircraftID)
}

// CreateTx inserts a flight within an existing transaction and populates
// the generated id.  The caller provisions seats in the same transaction.
func (r *FlightRepo) CreateTx(ctx context.Context, tx *sql.Tx, f *model.Flight) error {
	const q = `INSERT INTO flights (origin, destination, departure_date, departure_time, duration_minutes, aircraft_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, f.Origin, f.Destination, f.Date(), f.DepartureTime+":00",
		f.DurationMinutes, f.AircraftID)
	if err != nil {
		return mapWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	loaded, err := r.get(ctx, tx, uint64(id), "")
	if err != nil {
		return err
	}
	*f = loaded
	return nil
}

// CountReservationsTx returns how many reservations, of any status, exist
// on the flight's seats.
func (r *FlightRepo) CountReservationsTx(ctx context.Context, tx *sql.Tx, flightID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations r JOIN seats s ON s.id = r.seat_id WHERE s.flight_id = ?`
	var n int
	err := tx.QueryRowContext(ctx, q, flightID).Scan(&n)
	return n, err
}

// DeleteTx removes a flight; its seats go with it (ON DELETE CASCADE).
func (r *FlightRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
	if err != nil {
		return mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("flight %d: %w", id, ErrNotFound)
	}
	return nil
}
