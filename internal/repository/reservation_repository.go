package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

// ReservationRepo provides persistence for reservations.  Every write
// runs inside the reservation engine's transaction, after the seat row it
// touches has been locked.  All timestamp fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, passenger_id, seat_id, status, ticket_code, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var r model.Reservation
	err := row.Scan(&r.ID, &r.PassengerID, &r.SeatID, &r.Status, &r.TicketCode, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (r *ReservationRepo) get(ctx context.Context, q querier, id uint64, lock string) (model.Reservation, error) {
	res, err := scanReservation(q.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`+lock, id))
	if err != nil {
		return model.Reservation{}, fmt.Errorf("reservation %d: %w", id, notFound(err))
	}
	return res, nil
}

// GetByID returns a reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	return r.get(ctx, r.db, id, "")
}

// GetForUpdateTx loads a reservation and locks its row.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	return r.get(ctx, tx, id, " FOR UPDATE")
}

// ListByPassenger returns a passenger's reservations, newest first.
func (r *ReservationRepo) ListByPassenger(ctx context.Context, passengerID uint64) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE passenger_id = ? ORDER BY created_at DESC, id DESC`,
		passengerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// TicketCodeTakenTx reports whether a ticket code is already assigned.
func (r *ReservationRepo) TicketCodeTakenTx(ctx context.Context, tx *sql.Tx, code string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE ticket_code = ?`, code).Scan(&n)
	return n > 0, err
}

// CreateTx inserts a reservation within an existing transaction and
// populates the generated id and timestamps.  The caller must have locked
// the seat and must flip its availability in the same transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (passenger_id, seat_id, status, ticket_code) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.PassengerID, res.SeatID, string(res.Status), res.TicketCode)
	if err != nil {
		return mapWriteError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	loaded, err := r.get(ctx, tx, uint64(id), "")
	if err != nil {
		return err
	}
	*res = loaded
	return nil
}

// UpdateStatusTx writes a new status.  The ticket code is never touched.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ReservationStatus) error {
	res, err := tx.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteTx removes a reservation row.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	return nil
}

// ManifestByFlight lists the active (non-cancelled) reservations of a
// flight with passenger details, ordered by seat.
func (r *ReservationRepo) ManifestByFlight(ctx context.Context, flightID uint64) ([]model.ManifestEntry, error) {
	const q = `SELECT r.id, r.ticket_code, r.status, s.label,
	                  p.id, p.first_name, p.last_name, p.document_id, p.email
	           FROM reservations r
	           JOIN seats s ON s.id = r.seat_id
	           JOIN passengers p ON p.id = r.passenger_id
	           WHERE s.flight_id = ? AND r.status <> 'CANCELLED'
	           ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ManifestEntry, 0)
	for rows.Next() {
		var e model.ManifestEntry
		if err := rows.Scan(&e.ReservationID, &e.TicketCode, &e.Status, &e.SeatLabel,
			&e.PassengerID, &e.FirstName, &e.LastName, &e.DocumentID, &e.Email); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const ticketQuery = `SELECT r.id, r.ticket_code, r.status, r.created_at,
                            p.id, p.user_id, p.first_name, p.last_name, p.document_id, p.email,
                            f.id, f.origin, f.destination, f.departure_date, f.departure_time, f.duration_minutes,
                            a.model, a.tail_number, s.label
                     FROM reservations r
                     JOIN passengers p ON p.id = r.passenger_id
                     JOIN seats s ON s.id = r.seat_id
                     JOIN flights f ON f.id = s.flight_id
                     JOIN aircraft a ON a.id = f.aircraft_id
                     WHERE `

// TicketByID loads the ticket document of a reservation.
func (r *ReservationRepo) TicketByID(ctx context.Context, id uint64) (model.TicketDocument, error) {
	return r.ticket(ctx, "r.id = ?", id)
}

// TicketByCode loads the ticket document for a ticket code.
func (r *ReservationRepo) TicketByCode(ctx context.Context, code string) (model.TicketDocument, error) {
	return r.ticket(ctx, "r.ticket_code = ?", code)
}

func (r *ReservationRepo) ticket(ctx context.Context, where string, arg any) (model.TicketDocument, error) {
	var d model.TicketDocument
	var userID sql.NullInt64
	var first, last, clock string
	var date sql.NullTime
	err := r.db.QueryRowContext(ctx, ticketQuery+where, arg).Scan(
		&d.ReservationID, &d.TicketCode, &d.Status, &d.IssuedAt,
		&d.PassengerID, &userID, &first, &last, &d.DocumentID, &d.Email,
		&d.FlightID, &d.Origin, &d.Destination, &date, &clock, &d.DurationMinutes,
		&d.AircraftModel, &d.TailNumber, &d.SeatLabel,
	)
	if err != nil {
		return model.TicketDocument{}, fmt.Errorf("ticket %v: %w", arg, notFound(err))
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		d.PassengerUserID = &uid
	}
	d.PassengerName = first + " " + last
	if date.Valid {
		d.DepartureDate = date.Time.Format(model.DateLayout)
	}
	d.DepartureTime = trimSeconds(clock)
	return d, nil
}
