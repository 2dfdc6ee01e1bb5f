package model

import (
	"encoding/json"
	"time"
)

// DateLayout and TimeLayout are the wire formats of a flight's departure
// date and time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Flight is one scheduled departure of an aircraft between two airports.
// Departure date and time are kept apart, as they are in the flights
// table, so listings can order by date first and time second.
//
// Fields:
//  ID              – primary key identifier.
//  Origin          – departure airport or city.
//  Destination     – arrival airport or city.
//  DepartureDate   – calendar date of departure (UTC midnight).
//  DepartureTime   – local departure time formatted as HH:MM.
//  DurationMinutes – planned block time in minutes.
//  AircraftID      – aircraft assigned to the flight.
//  CreatedAt       – creation timestamp.
type Flight struct {
	ID              uint64    `json:"id"`               // flights.id
	Origin          string    `json:"origin"`           // flights.origin
	Destination     string    `json:"destination"`      // flights.destination
	DepartureDate   time.Time `json:"-"`                // flights.departure_date
	DepartureTime   string    `json:"departure_time"`   // flights.departure_time
	DurationMinutes int       `json:"duration_minutes"` // flights.duration_minutes
	AircraftID      uint64    `json:"aircraft_id"`      // flights.aircraft_id
	CreatedAt       time.Time `json:"created_at"`       // flights.created_at
}

// Date returns the departure date in DateLayout.
func (f Flight) Date() string { return f.DepartureDate.Format(DateLayout) }

// MarshalJSON renders the departure date as a plain date.
func (f Flight) MarshalJSON() ([]byte, error) {
	type alias Flight
	return json.Marshal(struct {
		alias
		DepartureDate string `json:"departure_date"`
	}{alias: alias(f), DepartureDate: f.Date()})
}
