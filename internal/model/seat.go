package model

// Seat is a bookable unit of one flight.  Seats are stamped out when the
// flight is scheduled and are unique per (flight, label).  Available is
// never edited directly: it follows the status of the reservation bound
// to the seat.
//
// Fields:
//  ID        – primary key identifier.
//  FlightID  – flight the seat belongs to.
//  Label     – row letters followed by the column number (A1, B4, AA2).
//  Available – false while a non-cancelled reservation holds the seat.
type Seat struct {
	ID        uint64 `json:"id"`           // seats.id
	FlightID  uint64 `json:"flight_id"`    // seats.flight_id
	Label     string `json:"label"`        // seats.label
	Available bool   `json:"is_available"` // seats.is_available
}

// SeatSummary reports how a flight's seats are split.  Total is the
// aircraft capacity, not a live count of seat rows.
type SeatSummary struct {
	FlightID  uint64 `json:"flight_id"`
	Total     int    `json:"total"`
	Available int    `json:"available"`
	Occupied  int    `json:"occupied"`
}
