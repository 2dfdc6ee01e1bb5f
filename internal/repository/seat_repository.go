package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

// seatInsertBatch caps the rows per INSERT statement when provisioning.
const seatInsertBatch = 500

// SeatRepo provides data access for per-flight seats.  The availability
// flag is only written from inside the reservation transaction, after the
// seat row has been locked with GetForUpdateTx.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// ListByFlight returns the seats of a flight in provisioning order.  When
// available is non-nil only seats with that availability are returned.
func (r *SeatRepo) ListByFlight(ctx context.Context, flightID uint64, available *bool) ([]model.Seat, error) {
	q := `SELECT id, flight_id, label, is_available FROM seats WHERE flight_id = ?`
	args := []any{flightID}
	if available != nil {
		q += ` AND is_available = ?`
		args = append(args, *available)
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.Label, &s.Available); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// CapacityByFlight returns the capacity of the aircraft operating the
// flight, or ErrNotFound for an unknown flight.
func (r *SeatRepo) CapacityByFlight(ctx context.Context, flightID uint64) (int, error) {
	const q = `SELECT a.capacity FROM flights f JOIN aircraft a ON a.id = f.aircraft_id WHERE f.id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, flightID).Scan(&n); err != nil {
		return 0, fmt.Errorf("flight %d: %w", flightID, notFound(err))
	}
	return n, nil
}

// GetForUpdateTx reads a seat with SELECT ... FOR UPDATE.  Concurrent
// transactions targeting the same seat block here until the holder
// commits or rolls back, so the availability flag read afterwards is
// current.
func (r *SeatRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, seatID uint64) (model.Seat, error) {
	const q = `SELECT id, flight_id, label, is_available FROM seats WHERE id = ? FOR UPDATE`
	var s model.Seat
	if err := tx.QueryRowContext(ctx, q, seatID).Scan(&s.ID, &s.FlightID, &s.Label, &s.Available); err != nil {
		return model.Seat{}, fmt.Errorf("seat %d: %w", seatID, notFound(err))
	}
	return s, nil
}

// SetAvailableTx writes the availability flag of a locked seat.
func (r *SeatRepo) SetAvailableTx(ctx context.Context, tx *sql.Tx, seatID uint64, available bool) error {
	res, err := tx.ExecContext(ctx, `UPDATE seats SET is_available = ? WHERE id = ?`, available, seatID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("seat %d: %w", seatID, ErrNotFound)
	}
	return nil
}

// CountByFlightTx returns the number of seat rows of a flight.
func (r *SeatRepo) CountByFlightTx(ctx context.Context, tx *sql.Tx, flightID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE flight_id = ?`, flightID).Scan(&n)
	return n, err
}

// CreateBulkTx inserts one available seat per label for the flight using
// multi-row INSERT statements.  Passing no labels has no effect.  A label
// already present for the flight fails the whole statement with
// ErrConflict.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, flightID uint64, labels []string) error {
	for start := 0; start < len(labels); start += seatInsertBatch {
		end := start + seatInsertBatch
		if end > len(labels) {
			end = len(labels)
		}
		batch := labels[start:end]
		placeholders := make([]string, len(batch))
		args := make([]any, 0, len(batch)*2)
		for i, label := range batch {
			placeholders[i] = "(?, ?, 1)"
			args = append(args, flightID, label)
		}
		q := `INSERT INTO seats (flight_id, label, is_available) VALUES ` + strings.Join(placeholders, ",")
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return mapWriteError(err)
		}
	}
	return nil
}
