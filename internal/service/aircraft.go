package service

import (
	"context"
	"fmt"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
)

// Registry owns the fleet.  Tail numbers are unique and an aircraft that
// still has flights cannot be removed.
type Registry struct {
	store Store
}

func NewRegistry(store Store) *Registry { return &Registry{store: store} }

// Create registers an aircraft.
func (r *Registry) Create(ctx context.Context, in AircraftInput) (model.Aircraft, error) {
	a, err := ValidateAircraft(in)
	if err != nil {
		return model.Aircraft{}, err
	}
	err = r.store.InTx(ctx, func(tx repository.Tx) error {
		if err := ensureTailFree(ctx, tx, a.TailNumber, 0); err != nil {
			return err
		}
		return tx.InsertAircraft(ctx, &a)
	})
	if err != nil {
		return model.Aircraft{}, err
	}
	return a, nil
}

// Update rewrites an aircraft.  Existing flights keep the seats they were
// provisioned with.
func (r *Registry) Update(ctx context.Context, id uint64, in AircraftInput) (model.Aircraft, error) {
	a, err := ValidateAircraft(in)
	if err != nil {
		return model.Aircraft{}, err
	}
	a.ID = id
	err = r.store.InTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.LockAircraft(ctx, id); err != nil {
			return err
		}
		if err := ensureTailFree(ctx, tx, a.TailNumber, id); err != nil {
			return err
		}
		return tx.UpdateAircraft(ctx, &a)
	})
	if err != nil {
		return model.Aircraft{}, err
	}
	return a, nil
}

func ensureTailFree(ctx context.Context, tx repository.Tx, tail string, exceptID uint64) error {
	taken, err := tx.TailNumberTaken(ctx, tail, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%s: %w", tail, repository.ErrDuplicateTailNumber)
	}
	return nil
}

// Delete removes an aircraft that no flight references.
func (r *Registry) Delete(ctx context.Context, id uint64) error {
	return r.store.InTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.LockAircraft(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountFlightsByAircraft(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("aircraft %d has %d flights: %w", id, n, repository.ErrAircraftInUse)
		}
		return tx.DeleteAircraft(ctx, id)
	})
}

func (r *Registry) Get(ctx context.Context, id uint64) (model.Aircraft, error) {
	return r.store.GetAircraft(ctx, id)
}

func (r *Registry) List(ctx context.Context) ([]model.Aircraft, error) {
	return r.store.ListAircraft(ctx)
}
