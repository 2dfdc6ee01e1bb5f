package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

// FlightSearchQuery defines filters and pagination for searching the
// schedule.  Origin and destination match case-insensitively on a
// substring; From and To bound the departure date inclusively.
type FlightSearchQuery struct {
	Origin        string
	Destination   string
	From          *time.Time
	To            *time.Time
	OnlyAvailable bool // only flights with at least one free seat
	Page          int
	PageSize      int
}

// FlightSearchRow is one search hit with its aircraft and free seat count.
type FlightSearchRow struct {
	ID              uint64 `json:"id"`
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	DepartureDate   string `json:"departure_date"`
	DepartureTime   string `json:"departure_time"`
	DurationMinutes int    `json:"duration_minutes"`
	AircraftID      uint64 `json:"aircraft_id"`
	AircraftModel   string `json:"aircraft_model"`
	TailNumber      string `json:"tail_number"`
	SeatsAvailable  int    `json:"seats_available"`
}

// SearchFlights returns one page of matching flights ordered by departure
// and the total number of matches.
func (r *FlightRepo) SearchFlights(ctx context.Context, q FlightSearchQuery) ([]FlightSearchRow, int64, error) {
	where := []string{}
	args := []any{}

	if q.Origin != "" {
		where = append(where, "LOWER(f.origin) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Origin)+"%")
	}
	if q.Destination != "" {
		where = append(where, "LOWER(f.destination) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Destination)+"%")
	}
	if q.From != nil {
		where = append(where, "f.departure_date >= ?")
		args = append(args, q.From.Format(model.DateLayout))
	}
	if q.To != nil {
		where = append(where, "f.departure_date <= ?")
		args = append(args, q.To.Format(model.DateLayout))
	}
	if q.OnlyAvailable {
		where = append(where, "COALESCE(s.free, 0) > 0")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	const from = `
		FROM flights f
		JOIN aircraft a ON a.id = f.aircraft_id
		LEFT JOIN (SELECT flight_id, SUM(is_available) AS free FROM seats GROUP BY flight_id) s
		       ON s.flight_id = f.id
		WHERE `

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+from+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			f.id,
			f.origin,
			f.destination,
			DATE_FORMAT(f.departure_date, '%Y-%m-%d'),
			TIME_FORMAT(f.departure_time, '%H:%i'),
			f.duration_minutes,
			a.id,
			a.model,
			a.tail_number,
			COALESCE(s.free, 0)` + from + cond + `
		ORDER BY f.departure_date, f.departure_time, f.id
		LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, dataSQL, append(append([]any{}, args...), limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]FlightSearchRow, 0, limit)
	for rows.Next() {
		var d FlightSearchRow
		if err := rows.Scan(
			&d.ID,
			&d.Origin,
			&d.Destination,
			&d.DepartureDate,
			&d.DepartureTime,
			&d.DurationMinutes,
			&d.AircraftID,
			&d.AircraftModel,
			&d.TailNumber,
			&d.SeatsAvailable,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
