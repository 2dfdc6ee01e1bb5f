package model

import "time"

// Aircraft is a registered airframe that flights are scheduled on.  The
// capacity decides how many seats are provisioned for every flight that
// uses it.
//
// Fields:
//  ID         – primary key identifier.
//  Model      – manufacturer model name (e.g. A320neo).
//  TailNumber – registration mark, unique across the fleet.
//  Capacity   – number of passenger seats, always at least 1.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Aircraft struct {
	ID         uint64    `json:"id"`          // aircraft.id
	Model      string    `json:"model"`       // aircraft.model
	TailNumber string    `json:"tail_number"` // aircraft.tail_number
	Capacity   int       `json:"capacity"`    // aircraft.capacity
	CreatedAt  time.Time `json:"created_at"`  // aircraft.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // aircraft.updated_at
}
