package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/queue"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
)

// memStore is an in-memory Store.  Transactions are serialized by mu and
// run against a copy of the data that replaces the live copy only when fn
// returns nil, which mirrors row locking plus commit/rollback closely
// enough for the service tests.
type memStore struct {
	mu   sync.Mutex
	data *memData
	txs  int

	lastSearch repository.FlightSearchQuery
}

type memData struct {
	nextID       uint64
	aircraft     map[uint64]model.Aircraft
	flights      map[uint64]model.Flight
	seats        map[uint64]model.Seat
	passengers   map[uint64]model.Passenger
	reservations map[uint64]model.Reservation
	users        map[uint64]model.User
}

func newMemStore() *memStore {
	return &memStore{data: &memData{
		aircraft:     map[uint64]model.Aircraft{},
		flights:      map[uint64]model.Flight{},
		seats:        map[uint64]model.Seat{},
		passengers:   map[uint64]model.Passenger{},
		reservations: map[uint64]model.Reservation{},
		users:        map[uint64]model.User{},
	}}
}

func cloneMap[V any](m map[uint64]V) map[uint64]V {
	out := make(map[uint64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d *memData) clone() *memData {
	return &memData{
		nextID:       d.nextID,
		aircraft:     cloneMap(d.aircraft),
		flights:      cloneMap(d.flights),
		seats:        cloneMap(d.seats),
		passengers:   cloneMap(d.passengers),
		reservations: cloneMap(d.reservations),
		users:        cloneMap(d.users),
	}
}

func (d *memData) id() uint64 {
	d.nextID++
	return d.nextID
}

func (s *memStore) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs++
	work := s.data.clone()
	if err := fn(&memTx{d: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *memStore) read() *memData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

func missing(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, repository.ErrNotFound)
}

func (s *memStore) GetAircraft(_ context.Context, id uint64) (model.Aircraft, error) {
	a, ok := s.read().aircraft[id]
	if !ok {
		return model.Aircraft{}, missing("aircraft", id)
	}
	return a, nil
}

func (s *memStore) ListAircraft(context.Context) ([]model.Aircraft, error) {
	d := s.read()
	out := make([]model.Aircraft, 0, len(d.aircraft))
	for _, a := range d.aircraft {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) GetFlight(_ context.Context, id uint64) (model.Flight, error) {
	f, ok := s.read().flights[id]
	if !ok {
		return model.Flight{}, missing("flight", id)
	}
	return f, nil
}

func sortFlights(out []model.Flight) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.DepartureDate.Equal(b.DepartureDate) {
			return a.DepartureDate.Before(b.DepartureDate)
		}
		if a.DepartureTime != b.DepartureTime {
			return a.DepartureTime < b.DepartureTime
		}
		return a.ID < b.ID
	})
}

func (s *memStore) ListFlights(context.Context) ([]model.Flight, error) {
	d := s.read()
	out := make([]model.Flight, 0, len(d.flights))
	for _, f := range d.flights {
		out = append(out, f)
	}
	sortFlights(out)
	return out, nil
}

func (s *memStore) ListFlightsByAircraft(_ context.Context, aircraftID uint64) ([]model.Flight, error) {
	d := s.read()
	out := []model.Flight{}
	for _, f := range d.flights {
		if f.AircraftID == aircraftID {
			out = append(out, f)
		}
	}
	sortFlights(out)
	return out, nil
}

func (s *memStore) SearchFlights(ctx context.Context, q repository.FlightSearchQuery) ([]repository.FlightSearchRow, int64, error) {
	s.mu.Lock()
	s.lastSearch = q
	s.mu.Unlock()

	all, _ := s.ListFlights(ctx)
	d := s.read()
	hits := []repository.FlightSearchRow{}
	for _, f := range all {
		if !strings.Contains(strings.ToLower(f.Origin), strings.ToLower(q.Origin)) ||
			!strings.Contains(strings.ToLower(f.Destination), strings.ToLower(q.Destination)) {
			continue
		}
		if (q.From != nil && f.DepartureDate.Before(*q.From)) || (q.To != nil && f.DepartureDate.After(*q.To)) {
			continue
		}
		free := 0
		for _, seat := range d.seats {
			if seat.FlightID == f.ID && seat.Available {
				free++
			}
		}
		if q.OnlyAvailable && free == 0 {
			continue
		}
		a := d.aircraft[f.AircraftID]
		hits = append(hits, repository.FlightSearchRow{
			ID: f.ID, Origin: f.Origin, Destination: f.Destination,
			DepartureDate: f.Date(), DepartureTime: f.DepartureTime, DurationMinutes: f.DurationMinutes,
			AircraftID: a.ID, AircraftModel: a.Model, TailNumber: a.TailNumber, SeatsAvailable: free,
		})
	}
	start := min((q.Page-1)*q.PageSize, len(hits))
	end := min(start+q.PageSize, len(hits))
	return hits[start:end], int64(len(hits)), nil
}

func (s *memStore) ListSeats(_ context.Context, flightID uint64, available *bool) ([]model.Seat, error) {
	d := s.read()
	out := []model.Seat{}
	for _, seat := range d.seats {
		if seat.FlightID != flightID {
			continue
		}
		if available != nil && seat.Available != *available {
			continue
		}
		out = append(out, seat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) FlightCapacity(_ context.Context, flightID uint64) (int, error) {
	d := s.read()
	f, ok := d.flights[flightID]
	if !ok {
		return 0, missing("flight", flightID)
	}
	return d.aircraft[f.AircraftID].Capacity, nil
}

func (s *memStore) GetPassenger(_ context.Context, id uint64) (model.Passenger, error) {
	p, ok := s.read().passengers[id]
	if !ok {
		return model.Passenger{}, missing("passenger", id)
	}
	return p, nil
}

func (s *memStore) GetPassengerByUser(_ context.Context, userID uint64) (model.Passenger, error) {
	for _, p := range s.read().passengers {
		if p.OwnedBy(userID) {
			return p, nil
		}
	}
	return model.Passenger{}, missing("passenger for user", userID)
}

func (s *memStore) ListPassengers(context.Context) ([]model.Passenger, error) {
	d := s.read()
	out := make([]model.Passenger, 0, len(d.passengers))
	for _, p := range d.passengers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) GetReservation(_ context.Context, id uint64) (model.Reservation, error) {
	r, ok := s.read().reservations[id]
	if !ok {
		return model.Reservation{}, missing("reservation", id)
	}
	return r, nil
}

func (s *memStore) ListReservationsByPassenger(_ context.Context, passengerID uint64) ([]model.Reservation, error) {
	out := []model.Reservation{}
	for _, r := range s.read().reservations {
		if r.PassengerID == passengerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) FlightManifest(_ context.Context, flightID uint64) ([]model.ManifestEntry, error) {
	d := s.read()
	type row struct {
		seatID uint64
		entry  model.ManifestEntry
	}
	var rows []row
	for _, r := range d.reservations {
		seat := d.seats[r.SeatID]
		if seat.FlightID != flightID || !r.Status.Active() {
			continue
		}
		p := d.passengers[r.PassengerID]
		rows = append(rows, row{seat.ID, model.ManifestEntry{
			ReservationID: r.ID,
			TicketCode:    r.TicketCode,
			Status:        r.Status,
			SeatLabel:     seat.Label,
			PassengerID:   p.ID,
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			DocumentID:    p.DocumentID,
			Email:         p.Email,
		}})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seatID < rows[j].seatID })
	out := make([]model.ManifestEntry, len(rows))
	for i, r := range rows {
		out[i] = r.entry
	}
	return out, nil
}

func (d *memData) ticket(r model.Reservation) model.TicketDocument {
	seat := d.seats[r.SeatID]
	f := d.flights[seat.FlightID]
	a := d.aircraft[f.AircraftID]
	p := d.passengers[r.PassengerID]
	return model.TicketDocument{
		ReservationID:   r.ID,
		TicketCode:      r.TicketCode,
		Status:          r.Status,
		IssuedAt:        r.CreatedAt,
		PassengerID:     p.ID,
		PassengerUserID: p.UserID,
		PassengerName:   p.FullName(),
		DocumentID:      p.DocumentID,
		Email:           p.Email,
		FlightID:        f.ID,
		Origin:          f.Origin,
		Destination:     f.Destination,
		DepartureDate:   f.Date(),
		DepartureTime:   f.DepartureTime,
		DurationMinutes: f.DurationMinutes,
		AircraftModel:   a.Model,
		TailNumber:      a.TailNumber,
		SeatLabel:       seat.Label,
	}
}

func (s *memStore) TicketByReservation(_ context.Context, id uint64) (model.TicketDocument, error) {
	d := s.read()
	r, ok := d.reservations[id]
	if !ok {
		return model.TicketDocument{}, missing("reservation", id)
	}
	return d.ticket(r), nil
}

func (s *memStore) TicketByCode(_ context.Context, code string) (model.TicketDocument, error) {
	d := s.read()
	for _, r := range d.reservations {
		if r.TicketCode == code {
			return d.ticket(r), nil
		}
	}
	return model.TicketDocument{}, missing("ticket", code)
}

// memTx applies writes to a private copy of the data.
type memTx struct {
	d *memData
}

var _ repository.Tx = (*memTx)(nil)

func (t *memTx) LockAircraft(_ context.Context, id uint64) (model.Aircraft, error) {
	a, ok := t.d.aircraft[id]
	if !ok {
		return model.Aircraft{}, missing("aircraft", id)
	}
	return a, nil
}

func (t *memTx) TailNumberTaken(_ context.Context, tail string, exceptID uint64) (bool, error) {
	for _, a := range t.d.aircraft {
		if a.TailNumber == tail && a.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertAircraft(_ context.Context, a *model.Aircraft) error {
	a.ID = t.d.id()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	t.d.aircraft[a.ID] = *a
	return nil
}

func (t *memTx) UpdateAircraft(_ context.Context, a *model.Aircraft) error {
	cur, ok := t.d.aircraft[a.ID]
	if !ok {
		return missing("aircraft", a.ID)
	}
	a.CreatedAt = cur.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	t.d.aircraft[a.ID] = *a
	return nil
}

func (t *memTx) CountFlightsByAircraft(_ context.Context, aircraftID uint64) (int, error) {
	n := 0
	for _, f := range t.d.flights {
		if f.AircraftID == aircraftID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) DeleteAircraft(_ context.Context, id uint64) error {
	if _, ok := t.d.aircraft[id]; !ok {
		return missing("aircraft", id)
	}
	delete(t.d.aircraft, id)
	return nil
}

func (t *memTx) LockFlight(_ context.Context, id uint64) (model.Flight, error) {
	f, ok := t.d.flights[id]
	if !ok {
		return model.Flight{}, missing("flight", id)
	}
	return f, nil
}

func (t *memTx) InsertFlight(_ context.Context, f *model.Flight) error {
	if _, ok := t.d.aircraft[f.AircraftID]; !ok {
		return repository.ErrConflict
	}
	f.ID = t.d.id()
	f.CreatedAt = time.Now().UTC()
	t.d.flights[f.ID] = *f
	return nil
}

func (t *memTx) CountReservationsByFlight(_ context.Context, flightID uint64) (int, error) {
	n := 0
	for _, r := range t.d.reservations {
		if t.d.seats[r.SeatID].FlightID == flightID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) DeleteFlight(_ context.Context, id uint64) error {
	if _, ok := t.d.flights[id]; !ok {
		return missing("flight", id)
	}
	for sid, seat := range t.d.seats {
		if seat.FlightID == id {
			delete(t.d.seats, sid)
		}
	}
	delete(t.d.flights, id)
	return nil
}

func (t *memTx) CountSeats(_ context.Context, flightID uint64) (int, error) {
	n := 0
	for _, seat := range t.d.seats {
		if seat.FlightID == flightID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) InsertSeats(_ context.Context, flightID uint64, labels []string) error {
	used := map[string]bool{}
	for _, seat := range t.d.seats {
		if seat.FlightID == flightID {
			used[seat.Label] = true
		}
	}
	for _, l := range labels {
		if used[l] {
			return repository.ErrConflict
		}
		used[l] = true
		id := t.d.id()
		t.d.seats[id] = model.Seat{ID: id, FlightID: flightID, Label: l, Available: true}
	}
	return nil
}

func (t *memTx) LockSeat(_ context.Context, id uint64) (model.Seat, error) {
	seat, ok := t.d.seats[id]
	if !ok {
		return model.Seat{}, missing("seat", id)
	}
	return seat, nil
}

func (t *memTx) SetSeatAvailable(_ context.Context, id uint64, available bool) error {
	seat, ok := t.d.seats[id]
	if !ok {
		return missing("seat", id)
	}
	seat.Available = available
	t.d.seats[id] = seat
	return nil
}

func (t *memTx) LockPassenger(_ context.Context, id uint64) (model.Passenger, error) {
	p, ok := t.d.passengers[id]
	if !ok {
		return model.Passenger{}, missing("passenger", id)
	}
	return p, nil
}

func (t *memTx) DocumentTaken(_ context.Context, documentID string, exceptID uint64) (bool, error) {
	for _, p := range t.d.passengers {
		if p.DocumentID == documentID && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) EmailTaken(_ context.Context, email string, exceptID uint64) (bool, error) {
	for _, p := range t.d.passengers {
		if p.Email == email && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertPassenger(_ context.Context, p *model.Passenger) error {
	p.ID = t.d.id()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	t.d.passengers[p.ID] = *p
	return nil
}

func (t *memTx) UpdatePassenger(_ context.Context, p *model.Passenger) error {
	cur, ok := t.d.passengers[p.ID]
	if !ok {
		return missing("passenger", p.ID)
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	t.d.passengers[p.ID] = *p
	return nil
}

func (t *memTx) CountReservationsByPassenger(_ context.Context, passengerID uint64) (int, error) {
	n := 0
	for _, r := range t.d.reservations {
		if r.PassengerID == passengerID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) DeletePassenger(_ context.Context, id uint64) error {
	if _, ok := t.d.passengers[id]; !ok {
		return missing("passenger", id)
	}
	delete(t.d.passengers, id)
	return nil
}

func (t *memTx) UserEmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range t.d.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertUser(_ context.Context, u *model.User) error {
	u.ID = t.d.id()
	u.IsActive = true
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	t.d.users[u.ID] = *u
	return nil
}

func (t *memTx) LockReservation(_ context.Context, id uint64) (model.Reservation, error) {
	r, ok := t.d.reservations[id]
	if !ok {
		return model.Reservation{}, missing("reservation", id)
	}
	return r, nil
}

func (t *memTx) TicketCodeTaken(_ context.Context, code string) (bool, error) {
	for _, r := range t.d.reservations {
		if r.TicketCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertReservation(_ context.Context, r *model.Reservation) error {
	for _, cur := range t.d.reservations {
		if cur.TicketCode == r.TicketCode {
			return repository.ErrConflict
		}
		if cur.SeatID == r.SeatID && cur.Status.Active() {
			return repository.ErrConflict
		}
	}
	r.ID = t.d.id()
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	t.d.reservations[r.ID] = *r
	return nil
}

func (t *memTx) UpdateReservationStatus(_ context.Context, id uint64, status model.ReservationStatus) error {
	r, ok := t.d.reservations[id]
	if !ok {
		return missing("reservation", id)
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	t.d.reservations[id] = r
	return nil
}

func (t *memTx) DeleteReservation(_ context.Context, id uint64) error {
	if _, ok := t.d.reservations[id]; !ok {
		return missing("reservation", id)
	}
	delete(t.d.reservations, id)
	return nil
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
}

func (r *recorder) Publish(_ context.Context, ev queue.ReservationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}
