// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// Event types published for reservations.
const (
	EventReservationHeld    = "reservation.held"
	EventStatusChanged      = "reservation.status_changed"
	EventReservationDeleted = "reservation.deleted"
)

// ReservationEvent is published after a reservation transaction commits.
// It carries enough detail for downstream consumers (audit log,
// notifications) to act without querying the primary database.
type ReservationEvent struct {
	Type           string    `json:"type"`
	ReservationID  uint64    `json:"reservation_id"`
	PassengerID    uint64    `json:"passenger_id"`
	FlightID       uint64    `json:"flight_id"`
	SeatID         uint64    `json:"seat_id"`
	SeatLabel      string    `json:"seat_label"`
	TicketCode     string    `json:"ticket_code"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
