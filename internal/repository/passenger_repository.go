package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

// PassengerRepo provides CRUD operations for passenger profiles.  Document
// id and email are unique; the registry checks them inside the write
// transaction and the unique indexes back that check up.
type PassengerRepo struct {
	db *sql.DB
}

// NewPassengerRepo returns a new PassengerRepo bound to the given database.
func NewPassengerRepo(db *sql.DB) *PassengerRepo { return &PassengerRepo{db: db} }

const passengerColumns = `id, user_id, first_name, last_name, document_id, email, phone, created_at, updated_at`

func scanPassenger(row interface{ Scan(...any) error }) (model.Passenger, error) {
	var p model.Passenger
	var userID sql.NullInt64
	var phone sql.NullString
	if err := row.Scan(&p.ID, &userID, &p.FirstName, &p.LastName, &p.DocumentID, &p.Email,
		&phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return model.Passenger{}, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		p.UserID = &uid
	}
	if phone.Valid {
		ph := phone.String
		p.Phone = &ph
	}
	return p, nil
}

func (r *PassengerRepo) getBy(ctx context.Context, q querier, column string, v any, lock string) (model.Passenger, error) {
	p, err := scanPassenger(q.QueryRowContext(ctx,
		`SELECT `+passengerColumns+` FROM passengers WHERE `+column+` = ?`+lock, v))
	if err != nil {
		return model.Passenger{}, fmt.Errorf("passenger %s=%v: %w", column, v, notFound(err))
	}
	return p, nil
}

// GetByID returns a passenger or ErrNotFound.
func (r *PassengerRepo) GetByID(ctx context.Context, id uint64) (model.Passenger, error) {
	return r.getBy(ctx, r.db, "id", id, "")
}

// GetByUserID returns the profile linked to a user account.
func (r *PassengerRepo) GetByUserID(ctx context.Context, userID uint64) (model.Passenger, error) {
	return r.getBy(ctx, r.db, "user_id", userID, "")
}

// GetForUpdateTx loads a passenger and locks the row.
func (r *PassengerRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Passenger, error) {
	return r.getBy(ctx, tx, "id", id, " FOR UPDATE")
}

// List returns every passenger ordered by last and first name.
func (r *PassengerRepo) List(ctx context.Context) ([]model.Passenger, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+passengerColumns+` FROM passengers ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Passenger, 0)
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// TakenTx reports whether another passenger (id != exceptID) already uses
// the value in column.  column must be document_id or email.
func (r *PassengerRepo) TakenTx(ctx context.Context, tx *sql.Tx, column, value string, exceptID uint64) (bool, error) {
	if column != "document_id" && column != "email" {
		return false, fmt.Errorf("passenger: unsupported unique column %q", column)
	}
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM passengers WHERE `+column+` = ? AND id <> ? FOR UPDATE`,
		value, exceptID).Scan(&n)
	return n > 0, err
}

// CreateTx inserts a passenger profile and reloads it.
func (r *PassengerRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Passenger) error {
	const q = `INSERT INTO passengers (user_id, first_name, last_name, document_id, email, phone)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.UserID, p.FirstName, p.LastName, p.DocumentID, p.Email, p.Phone)
	if err != nil {
		return mapWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	loaded, err := r.getBy(ctx, tx, "id", uint64(id), "")
	if err != nil {
		return err
	}
	*p = loaded
	return nil
}

// UpdateTx rewrites the editable fields of a profile.  The linked user is
// not changed here.
func (r *PassengerRepo) UpdateTx(ctx context.Context, tx *sql.Tx, p *model.Passenger) error {
	const q = `UPDATE passengers SET first_name = ?, last_name = ?, document_id = ?, email = ?, phone = ?
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, p.FirstName, p.LastName, p.DocumentID, p.Email, p.Phone, p.ID)
	if err != nil {
		return mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("passenger %d: %w", p.ID, ErrNotFound)
	}
	loaded, err := r.getBy(ctx, tx, "id", p.ID, "")
	if err != nil {
		return err
	}
	*p = loaded
	return nil
}

// CountReservationsTx returns how many reservations reference the passenger.
func (r *PassengerRepo) CountReservationsTx(ctx context.Context, tx *sql.Tx, id uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE passenger_id = ?`, id).Scan(&n)
	return n, err
}

// DeleteTx removes a passenger profile.
func (r *PassengerRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM passengers WHERE id = ?`, id)
	if err != nil {
		return mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("passenger %d: %w", id, ErrNotFound)
	}
	return nil
}
