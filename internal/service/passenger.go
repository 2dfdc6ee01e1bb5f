package service

import (
	"context"
	"fmt"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
)

// Directory manages passenger profiles and the per-flight manifest.
type Directory struct {
	store Store
}

func NewDirectory(store Store) *Directory { return &Directory{store: store} }

// Create stores a new profile, optionally linked to a user account.
func (d *Directory) Create(ctx context.Context, in PassengerInput, userID *uint64) (model.Passenger, error) {
	p, err := ValidatePassenger(in)
	if err != nil {
		return model.Passenger{}, err
	}
	p.UserID = userID
	err = d.store.InTx(ctx, func(tx repository.Tx) error {
		return createPassenger(ctx, tx, &p)
	})
	if err != nil {
		return model.Passenger{}, err
	}
	return p, nil
}

func createPassenger(ctx context.Context, tx repository.Tx, p *model.Passenger) error {
	if err := ensureIdentityFree(ctx, tx, p, 0); err != nil {
		return err
	}
	return tx.InsertPassenger(ctx, p)
}

// ensureIdentityFree rejects a document id or email already held by a
// profile other than exceptID.
func ensureIdentityFree(ctx context.Context, tx repository.Tx, p *model.Passenger, exceptID uint64) error {
	taken, err := tx.DocumentTaken(ctx, p.DocumentID, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%s: %w", p.DocumentID, repository.ErrDuplicateDocument)
	}
	taken, err = tx.EmailTaken(ctx, p.Email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%s: %w", p.Email, repository.ErrDuplicateEmail)
	}
	return nil
}

// Update rewrites a profile's editable fields.  The user link is kept.
func (d *Directory) Update(ctx context.Context, id uint64, in PassengerInput) (model.Passenger, error) {
	p, err := ValidatePassenger(in)
	if err != nil {
		return model.Passenger{}, err
	}
	err = d.store.InTx(ctx, func(tx repository.Tx) error {
		cur, err := tx.LockPassenger(ctx, id)
		if err != nil {
			return err
		}
		p.ID = id
		p.UserID = cur.UserID
		if err := ensureIdentityFree(ctx, tx, &p, id); err != nil {
			return err
		}
		return tx.UpdatePassenger(ctx, &p)
	})
	if err != nil {
		return model.Passenger{}, err
	}
	return p, nil
}

// UpdateForUser edits the profile linked to userID.
func (d *Directory) UpdateForUser(ctx context.Context, userID uint64, in PassengerInput) (model.Passenger, error) {
	cur, err := d.store.GetPassengerByUser(ctx, userID)
	if err != nil {
		return model.Passenger{}, err
	}
	return d.Update(ctx, cur.ID, in)
}

func (d *Directory) Get(ctx context.Context, id uint64) (model.Passenger, error) {
	return d.store.GetPassenger(ctx, id)
}

func (d *Directory) GetByUser(ctx context.Context, userID uint64) (model.Passenger, error) {
	return d.store.GetPassengerByUser(ctx, userID)
}

func (d *Directory) List(ctx context.Context) ([]model.Passenger, error) {
	return d.store.ListPassengers(ctx)
}

// Delete removes a profile that no reservation references.  Cancelled
// reservations count: they are kept as history.
func (d *Directory) Delete(ctx context.Context, id uint64) error {
	return d.store.InTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.LockPassenger(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountReservationsByPassenger(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("passenger %d has %d reservations: %w", id, n, repository.ErrConflict)
		}
		return tx.DeletePassenger(ctx, id)
	})
}

// Manifest lists the passengers holding an active reservation on a flight,
// in seat order.
func (d *Directory) Manifest(ctx context.Context, flightID uint64) ([]model.ManifestEntry, error) {
	if _, err := d.store.GetFlight(ctx, flightID); err != nil {
		return nil, err
	}
	return d.store.FlightManifest(ctx, flightID)
}
