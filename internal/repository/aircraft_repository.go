package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

// AircraftRepo provides CRUD operations for the fleet.  Writes are issued
// inside a caller-owned transaction (the *Tx methods) so the registry can
// pair a uniqueness or reference check with the write it guards.
type AircraftRepo struct {
	db *sql.DB
}

// NewAircraftRepo returns a new AircraftRepo bound to the given database.
func NewAircraftRepo(db *sql.DB) *AircraftRepo { return &AircraftRepo{db: db} }

const aircraftColumns = `id, model, tail_number, capacity, created_at, updated_at`

func scanAircraft(row interface{ Scan(...any) error }) (model.Aircraft, error) {
	var a model.Aircraft
	err := row.Scan(&a.ID, &a.Model, &a.TailNumber, &a.Capacity, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *AircraftRepo) get(ctx context.Context, q querier, id uint64, lock string) (model.Aircraft, error) {
	a, err := scanAircraft(q.QueryRowContext(ctx, `SELECT `+aircraftColumns+` FROM aircraft WHERE id = ?`+lock, id))
	if err != nil {
		return model.Aircraft{}, fmt.Errorf("aircraft %d: %w", id, notFound(err))
	}
	return a, nil
}

// GetByID returns a single aircraft or ErrNotFound.
func (r *AircraftRepo) GetByID(ctx context.Context, id uint64) (model.Aircraft, error) {
	return r.get(ctx, r.db, id, "")
}

// GetForUpdateTx loads an aircraft and locks its row until the transaction
// ends.  Scheduling reads the capacity through it so a concurrent capacity
// edit cannot interleave with seat provisioning.
func (r *AircraftRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Aircraft, error) {
	return r.get(ctx, tx, id, " FOR UPDATE")
}

// List returns all aircraft ordered by tail number.
func (r *AircraftRepo) List(ctx context.Context) ([]model.Aircraft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+aircraftColumns+` FROM aircraft ORDER BY tail_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Aircraft, 0)
	for rows.Next() {
		a, err := scanAircraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// TailNumberTakenTx reports whether another aircraft (id != exceptID) uses
// the tail number.  Pass exceptID 0 on create.
func (r *AircraftRepo) TailNumberTakenTx(ctx context.Context, tx *sql.Tx, tail string, exceptID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM aircraft WHERE tail_number = ? AND id <> ? FOR UPDATE`,
		tail, exceptID).Scan(&n)
	return n > 0, err
}

// CreateTx inserts an aircraft and populates its generated id and
// timestamps.
func (r *AircraftRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Aircraft) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO aircraft (model, tail_number, capacity) VALUES (?, ?, ?)`,
		a.Model, a.TailNumber, a.Capacity)
	if err != nil {
		return mapWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	// Query back the full row to populate timestamps and defaults
	loaded, err := r.get(ctx, tx, uint64(id), "")
	if err != nil {
		return err
	}
	*a = loaded
	return nil
}

// UpdateTx rewrites model, tail number and capacity.  It returns
// ErrNotFound when no row matched.
func (r *AircraftRepo) UpdateTx(ctx context.Context, tx *sql.Tx, a *model.Aircraft) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE aircraft SET model = ?, tail_number = ?, capacity = ? WHERE id = ?`,
		a.Model, a.TailNumber, a.Capacity, a.ID)
	if err != nil {
		return mapWriteError(err)
	}
	loaded, err := r.get(ctx, tx, a.ID, "")
	if err != nil {
		return err
	}
	*a = loaded
	return nil
}

// CountFlightsTx returns how many flights reference the aircraft.
func (r *AircraftRepo) CountFlightsTx(ctx context.Context, tx *sql.Tx, id uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights WHERE aircraft_id = ?`, id).Scan(&n)
	return n, err
}

// DeleteTx removes an aircraft.  A foreign key violation from a flight
// that slipped in is reported as ErrAircraftInUse.
func (r *AircraftRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM aircraft WHERE id = ?`, id)
	if err != nil {
		if mapWriteError(err) == ErrConflict {
			return ErrAircraftInUse
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("aircraft %d: %w", id, ErrNotFound)
	}
	return nil
}
