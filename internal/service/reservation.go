package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/queue"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
)

// MaxSeatsPerRequest caps how many seats one Reserve call may take.
const MaxSeatsPerRequest = 4

// ticketCodeAttempts bounds the retry loop when a generated code collides
// with a stored one.
const ticketCodeAttempts = 5

// ReservationResult is what Reserve hands back to the caller: the
// reservations it created, in the order the seats were requested.
type ReservationResult struct {
	PassengerID  uint64              `json:"passenger_id"`
	Reservations []model.Reservation `json:"reservations"`
}

// TicketCodes lists the codes of the created reservations.
func (r ReservationResult) TicketCodes() []string {
	codes := make([]string, len(r.Reservations))
	for i, res := range r.Reservations {
		codes[i] = res.TicketCode
	}
	return codes
}

// Engine runs the reservation transaction scripts.  Every write to a
// seat's availability flag goes through here, under the seat's row lock,
// together with the reservation row that explains it.
type Engine struct {
	store    Store
	events   Publisher
	newCode  func() string
	maxSeats int
}

// NewEngine returns an engine publishing to events.  A nil publisher
// drops events.
func NewEngine(store Store, events Publisher) *Engine {
	if events == nil {
		events = NopPublisher{}
	}
	return &Engine{store: store, events: events, newCode: NewTicketCode, maxSeats: MaxSeatsPerRequest}
}

// Reserve holds every requested seat for the passenger or none of them.
// Each seat is locked and re-checked inside the transaction, so two
// callers racing for the same seat cannot both succeed: the loser gets a
// *SeatUnavailableError and its earlier seats are rolled back.
func (e *Engine) Reserve(ctx context.Context, passengerID uint64, seatIDs []uint64) (ReservationResult, error) {
	if err := ValidateSelection(seatIDs, e.maxSeats); err != nil {
		return ReservationResult{}, err
	}
	result := ReservationResult{PassengerID: passengerID}
	var seats []model.Seat
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.LockPassenger(ctx, passengerID); err != nil {
			return err
		}
		for _, id := range seatIDs {
			seat, err := tx.LockSeat(ctx, id)
			if err != nil {
				return err
			}
			if !seat.Available {
				return &SeatUnavailableError{SeatID: seat.ID, Label: seat.Label}
			}
			code, err := e.uniqueTicketCode(ctx, tx)
			if err != nil {
				return err
			}
			res := model.Reservation{
				PassengerID: passengerID,
				SeatID:      seat.ID,
				Status:      model.StatusHeld,
				TicketCode:  code,
			}
			if err := tx.InsertReservation(ctx, &res); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return &SeatUnavailableError{SeatID: seat.ID, Label: seat.Label}
				}
				return err
			}
			if err := tx.SetSeatAvailable(ctx, seat.ID, false); err != nil {
				return err
			}
			result.Reservations = append(result.Reservations, res)
			seats = append(seats, seat)
		}
		return nil
	})
	if err != nil {
		return ReservationResult{}, err
	}
	for i, res := range result.Reservations {
		e.publish(ctx, queue.EventReservationHeld, res, seats[i], "")
	}
	return result, nil
}

func (e *Engine) uniqueTicketCode(ctx context.Context, tx repository.Tx) (string, error) {
	for i := 0; i < ticketCodeAttempts; i++ {
		code := e.newCode()
		taken, err := tx.TicketCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free ticket code after %d attempts", ticketCodeAttempts)
}

// Cancel moves a reservation to CANCELLED and frees its seat.
func (e *Engine) Cancel(ctx context.Context, reservationID uint64) (model.Reservation, error) {
	return e.SetStatus(ctx, reservationID, model.StatusCancelled)
}

// CancelFor cancels a reservation on behalf of a passenger.  Reservations
// held by someone else yield ErrForbidden.
func (e *Engine) CancelFor(ctx context.Context, reservationID, passengerID uint64) (model.Reservation, error) {
	return e.setStatus(ctx, reservationID, model.StatusCancelled, &passengerID)
}

// SetStatus moves a reservation along its lifecycle and keeps the seat's
// availability in step: the seat is free exactly when the reservation is
// CANCELLED.  Requesting the current status changes nothing.
func (e *Engine) SetStatus(ctx context.Context, reservationID uint64, status model.ReservationStatus) (model.Reservation, error) {
	return e.setStatus(ctx, reservationID, status, nil)
}

func (e *Engine) setStatus(ctx context.Context, id uint64, status model.ReservationStatus, owner *uint64) (model.Reservation, error) {
	if !status.Valid() {
		return model.Reservation{}, invalidField("status", "unknown status "+string(status))
	}
	var (
		res     model.Reservation
		seat    model.Seat
		prev    model.ReservationStatus
		changed bool
	)
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		res, err = tx.LockReservation(ctx, id)
		if err != nil {
			return err
		}
		if owner != nil && res.PassengerID != *owner {
			return repository.ErrForbidden
		}
		prev = res.Status
		if prev == status {
			return nil
		}
		if !prev.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, status)
		}
		seat, err = tx.LockSeat(ctx, res.SeatID)
		if err != nil {
			return err
		}
		if err := tx.UpdateReservationStatus(ctx, id, status); err != nil {
			return err
		}
		if err := tx.SetSeatAvailable(ctx, seat.ID, status.SeatAvailable()); err != nil {
			return err
		}
		res.Status = status
		res.UpdatedAt = time.Now().UTC()
		changed = true
		return nil
	})
	if err != nil {
		return model.Reservation{}, err
	}
	if changed {
		e.publish(ctx, queue.EventStatusChanged, res, seat, prev)
	}
	return res, nil
}

// Delete removes a reservation outright.  An active reservation frees its
// seat first.
func (e *Engine) Delete(ctx context.Context, reservationID uint64) error {
	var (
		res  model.Reservation
		seat model.Seat
	)
	err := e.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		res, err = tx.LockReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		seat, err = tx.LockSeat(ctx, res.SeatID)
		if err != nil {
			return err
		}
		if err := tx.DeleteReservation(ctx, reservationID); err != nil {
			return err
		}
		if res.Status.Active() {
			return tx.SetSeatAvailable(ctx, seat.ID, true)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.publish(ctx, queue.EventReservationDeleted, res, seat, "")
	return nil
}

func (e *Engine) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	return e.store.GetReservation(ctx, id)
}

// ListByPassenger returns a passenger's reservations, newest first.
func (e *Engine) ListByPassenger(ctx context.Context, passengerID uint64) ([]model.Reservation, error) {
	if _, err := e.store.GetPassenger(ctx, passengerID); err != nil {
		return nil, err
	}
	return e.store.ListReservationsByPassenger(ctx, passengerID)
}

// publish is best effort: the transaction has already committed.
func (e *Engine) publish(ctx context.Context, kind string, res model.Reservation, seat model.Seat, prev model.ReservationStatus) {
	_ = e.events.Publish(ctx, queue.ReservationEvent{
		Type:           kind,
		ReservationID:  res.ID,
		PassengerID:    res.PassengerID,
		FlightID:       seat.FlightID,
		SeatID:         res.SeatID,
		SeatLabel:      seat.Label,
		TicketCode:     res.TicketCode,
		Status:         string(res.Status),
		PreviousStatus: string(prev),
		OccurredAt:     time.Now().UTC(),
	})
}
