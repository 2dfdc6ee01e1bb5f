package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusHeld      ReservationStatus = "HELD"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusCheckedIn ReservationStatus = "CHECKED_IN"
)

// transitions lists the statuses reachable from each state.  CANCELLED and
// CHECKED_IN have no entry and are therefore terminal.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusHeld:      {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
}

// Valid reports whether s is one of the known statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusHeld, StatusConfirmed, StatusCancelled, StatusCheckedIn:
		return true
	}
	return false
}

// Active reports whether a reservation in this status occupies its seat.
func (s ReservationStatus) Active() bool { return s.Valid() && s != StatusCancelled }

// CanTransition reports whether a reservation may move from s to next.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// SeatAvailable is the availability flag a seat must carry while it is
// bound to a reservation in status s.
func (s ReservationStatus) SeatAvailable() bool { return !s.Active() }

// Reservation binds one passenger to one seat.  TicketCode is assigned on
// creation and never rewritten.
//
// Fields:
//  ID          – primary key identifier.
//  PassengerID – passenger holding the seat.
//  SeatID      – reserved seat.
//  Status      – lifecycle state (HELD, CONFIRMED, CANCELLED, CHECKED_IN).
//  TicketCode  – 8 character uppercase alphanumeric code.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Reservation struct {
	ID          uint64            `json:"id"`           // reservations.id
	PassengerID uint64            `json:"passenger_id"` // reservations.passenger_id
	SeatID      uint64            `json:"seat_id"`      // reservations.seat_id
	Status      ReservationStatus `json:"status"`       // reservations.status
	TicketCode  string            `json:"ticket_code"`  // reservations.ticket_code
	CreatedAt   time.Time         `json:"created_at"`   // reservations.created_at
	UpdatedAt   time.Time         `json:"updated_at"`   // reservations.updated_at
}

// ManifestEntry is one line of a flight's passenger report.
type ManifestEntry struct {
	ReservationID uint64            `json:"reservation_id"`
	TicketCode    string            `json:"ticket_code"`
	Status        ReservationStatus `json:"status"`
	SeatLabel     string            `json:"seat_label"`
	PassengerID   uint64            `json:"passenger_id"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	DocumentID    string            `json:"document_id"`
	Email         string            `json:"email"`
}

// TicketDocument carries everything printed on a ticket.  PassengerUserID
// is used for the ownership check and is not rendered.
type TicketDocument struct {
	ReservationID   uint64            `json:"reservation_id"`
	TicketCode      string            `json:"ticket_code"`
	Status          ReservationStatus `json:"status"`
	IssuedAt        time.Time         `json:"issued_at"`
	PassengerID     uint64            `json:"passenger_id"`
	PassengerUserID *uint64           `json:"-"`
	PassengerName   string            `json:"passenger_name"`
	DocumentID      string            `json:"document_id"`
	Email           string            `json:"email"`
	FlightID        uint64            `json:"flight_id"`
	Origin          string            `json:"origin"`
	Destination     string            `json:"destination"`
	DepartureDate   string            `json:"departure_date"`
	DepartureTime   string            `json:"departure_time"`
	DurationMinutes int               `json:"duration_minutes"`
	AircraftModel   string            `json:"aircraft_model"`
	TailNumber      string            `json:"tail_number"`
	SeatLabel       string            `json:"seat_label"`
}
