package repository

import (
	"context"
	"database/sql"

	"github.com/Ma1k10/Airplanes-Repository/internal/database"
	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

// Tx is the set of writes and locking reads available inside one
// database transaction.  Services run their transaction scripts against
// it through Store.InTx, so a failure anywhere rolls back every step.
// Lock* methods take an exclusive row lock (SELECT ... FOR UPDATE) that
// is held until the transaction ends.
type Tx interface {
	LockAircraft(ctx context.Context, id uint64) (model.Aircraft, error)
	TailNumberTaken(ctx context.Context, tail string, exceptID uint64) (bool, error)
	InsertAircraft(ctx context.Context, a *model.Aircraft) error
	UpdateAircraft(ctx context.Context, a *model.Aircraft) error
	CountFlightsByAircraft(ctx context.Context, aircraftID uint64) (int, error)
	DeleteAircraft(ctx context.Context, id uint64) error

	LockFlight(ctx context.Context, id uint64) (model.Flight, error)
	InsertFlight(ctx context.Context, f *model.Flight) error
	CountReservationsByFlight(ctx context.Context, flightID uint64) (int, error)
	DeleteFlight(ctx context.Context, id uint64) error

	CountSeats(ctx context.Context, flightID uint64) (int, error)
	InsertSeats(ctx context.Context, flightID uint64, labels []string) error
	LockSeat(ctx context.Context, id uint64) (model.Seat, error)
	SetSeatAvailable(ctx context.Context, id uint64, available bool) error

	LockPassenger(ctx context.Context, id uint64) (model.Passenger, error)
	DocumentTaken(ctx context.Context, documentID string, exceptID uint64) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID uint64) (bool, error)
	InsertPassenger(ctx context.Context, p *model.Passenger) error
	UpdatePassenger(ctx context.Context, p *model.Passenger) error
	CountReservationsByPassenger(ctx context.Context, passengerID uint64) (int, error)
	DeletePassenger(ctx context.Context, id uint64) error

	UserEmailTaken(ctx context.Context, email string) (bool, error)
	InsertUser(ctx context.Context, u *model.User) error

	LockReservation(ctx context.Context, id uint64) (model.Reservation, error)
	TicketCodeTaken(ctx context.Context, code string) (bool, error)
	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservationStatus(ctx context.Context, id uint64, status model.ReservationStatus) error
	DeleteReservation(ctx context.Context, id uint64) error
}

// Store bundles the MySQL repositories.  Reads go straight to the pool;
// writes go through InTx.
type Store struct {
	db           *sql.DB
	Aircraft     *AircraftRepo
	Flights      *FlightRepo
	Seats        *SeatRepo
	Passengers   *PassengerRepo
	Reservations *ReservationRepo
	Users        *UserRepo
}

// NewStore builds every repository on the same connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Aircraft:     NewAircraftRepo(db),
		Flights:      NewFlightRepo(db),
		Seats:        NewSeatRepo(db),
		Passengers:   NewPassengerRepo(db),
		Reservations: NewReservationRepo(db),
		Users:        NewUserRepo(db),
	}
}

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB { return s.db }

// InTx runs fn in a single transaction, committing only when fn returns nil.
func (s *Store) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&sqlTx{tx: tx, s: s})
	})
}

func (s *Store) GetAircraft(ctx context.Context, id uint64) (model.Aircraft, error) {
	return s.Aircraft.GetByID(ctx, id)
}

func (s *Store) ListAircraft(ctx context.Context) ([]model.Aircraft, error) {
	return s.Aircraft.List(ctx)
}

func (s *Store) GetFlight(ctx context.Context, id uint64) (model.Flight, error) {
	return s.Flights.GetByID(ctx, id)
}

func (s *Store) ListFlights(ctx context.Context) ([]model.Flight, error) {
	return s.Flights.ListAll(ctx)
}

func (s *Store) SearchFlights(ctx context.Context, q FlightSearchQuery) ([]FlightSearchRow, int64, error) {
	return s.Flights.SearchFlights(ctx, q)
}

func (s *Store) ListFlightsByAircraft(ctx context.Context, aircraftID uint64) ([]model.Flight, error) {
	return s.Flights.ListByAircraft(ctx, aircraftID)
}

func (s *Store) ListSeats(ctx context.Context, flightID uint64, available *bool) ([]model.Seat, error) {
	return s.Seats.ListByFlight(ctx, flightID, available)
}

func (s *Store) FlightCapacity(ctx context.Context, flightID uint64) (int, error) {
	return s.Seats.CapacityByFlight(ctx, flightID)
}

func (s *Store) GetPassenger(ctx context.Context, id uint64) (model.Passenger, error) {
	return s.Passengers.GetByID(ctx, id)
}

func (s *Store) GetPassengerByUser(ctx context.Context, userID uint64) (model.Passenger, error) {
	return s.Passengers.GetByUserID(ctx, userID)
}

func (s *Store) ListPassengers(ctx context.Context) ([]model.Passenger, error) {
	return s.Passengers.List(ctx)
}

func (s *Store) GetReservation(ctx context.Context, id uint64) (model.Reservation, error) {
	return s.Reservations.GetByID(ctx, id)
}

func (s *Store) ListReservationsByPassenger(ctx context.Context, passengerID uint64) ([]model.Reservation, error) {
	return s.Reservations.ListByPassenger(ctx, passengerID)
}

func (s *Store) FlightManifest(ctx context.Context, flightID uint64) ([]model.ManifestEntry, error) {
	return s.Reservations.ManifestByFlight(ctx, flightID)
}

func (s *Store) TicketByReservation(ctx context.Context, reservationID uint64) (model.TicketDocument, error) {
	return s.Reservations.TicketByID(ctx, reservationID)
}

func (s *Store) TicketByCode(ctx context.Context, code string) (model.TicketDocument, error) {
	return s.Reservations.TicketByCode(ctx, code)
}

// sqlTx adapts the repositories' *Tx methods to the Tx interface.
type sqlTx struct {
	tx *sql.Tx
	s  *Store
}

func (t *sqlTx) LockAircraft(ctx context.Context, id uint64) (model.Aircraft, error) {
	return t.s.Aircraft.GetForUpdateTx(ctx, t.tx, id)
}

func (t *sqlTx) TailNumberTaken(ctx context.Context, tail string, exceptID uint64) (bool, error) {
	return t.s.Aircraft.TailNumberTakenTx(ctx, t.tx, tail, exceptID)
}

func (t *sqlTx) InsertAircraft(ctx context.Context, a *model.Aircraft) error {
	return t.s.Aircraft.CreateTx(ctx, t.tx, a)
}

func (t *sqlTx) UpdateAircraft(ctx context.Context, a *model.Aircraft) error {
	return t.s.Aircraft.UpdateTx(ctx, t.tx, a)
}

func (t *sqlTx) CountFlightsByAircraft(ctx context.Context, aircraftID uint64) (int, error) {
	return t.s.Aircraft.CountFlightsTx(ctx, t.tx, aircraftID)
}

func (t *sqlTx) DeleteAircraft(ctx context.Context, id uint64) error {
	return t.s.Aircraft.DeleteTx(ctx, t.tx, id)
}

func (t *sqlTx) LockFlight(ctx context.Context, id uint64) (model.Flight, error) {
	return t.s.Flights.GetForUpdateTx(ctx, t.tx, id)
}

func (t *sqlTx) InsertFlight(ctx context.Context, f *model.Flight) error {
	return t.s.Flights.CreateTx(ctx, t.tx, f)
}

func (t *sqlTx) CountReservationsByFlight(ctx context.Context, flightID uint64) (int, error) {
	return t.s.Flights.CountReservationsTx(ctx, t.tx, flightID)
}

func (t *sqlTx) DeleteFlight(ctx context.Context, id uint64) error {
	return t.s.Flights.DeleteTx(ctx, t.tx, id)
}

func (t *sqlTx) CountSeats(ctx context.Context, flightID uint64) (int, error) {
	return t.s.Seats.CountByFlightTx(ctx, t.tx, flightID)
}

func (t *sqlTx) InsertSeats(ctx context.Context, flightID uint64, labels []string) error {
	return t.s.Seats.CreateBulkTx(ctx, t.tx, flightID, labels)
}

func (t *sqlTx) LockSeat(ctx context.Context, id uint64) (model.Seat, error) {
	return t.s.Seats.GetForUpdateTx(ctx, t.tx, id)
}

func (t *sqlTx) SetSeatAvailable(ctx context.Context, id uint64, available bool) error {
	return t.s.Seats.SetAvailableTx(ctx, t.tx, id, available)
}

func (t *sqlTx) LockPassenger(ctx context.Context, id uint64) (model.Passenger, error) {
	return t.s.Passengers.GetForUpdateTx(ctx, t.tx, id)
}

func (t *sqlTx) DocumentTaken(ctx context.Context, documentID string, exceptID uint64) (bool, error) {
	return t.s.Passengers.TakenTx(ctx, t.tx, "document_id", documentID, exceptID)
}

func (t *sqlTx) EmailTaken(ctx context.Context, email string, exceptID uint64) (bool, error) {
	return t.s.Passengers.TakenTx(ctx, t.tx, "email", email, exceptID)
}

func (t *sqlTx) InsertPassenger(ctx context.Context, p *model.Passenger) error {
	return t.s.Passengers.CreateTx(ctx, t.tx, p)
}

func (t *sqlTx) UpdatePassenger(ctx context.Context, p *model.Passenger) error {
	return t.s.Passengers.UpdateTx(ctx, t.tx, p)
}

func (t *sqlTx) CountReservationsByPassenger(ctx context.Context, passengerID uint64) (int, error) {
	return t.s.Passengers.CountReservationsTx(ctx, t.tx, passengerID)
}

func (t *sqlTx) DeletePassenger(ctx context.Context, id uint64) error {
	return t.s.Passengers.DeleteTx(ctx, t.tx, id)
}

func (t *sqlTx) UserEmailTaken(ctx context.Context, email string) (bool, error) {
	return t.s.Users.EmailTakenTx(ctx, t.tx, email)
}

func (t *sqlTx) InsertUser(ctx context.Context, u *model.User) error {
	return t.s.Users.CreateTx(ctx, t.tx, u)
}

func (t *sqlTx) LockReservation(ctx context.Context, id uint64) (model.Reservation, error) {
	return t.s.Reservations.GetForUpdateTx(ctx, t.tx, id)
}

func (t *sqlTx) TicketCodeTaken(ctx context.Context, code string) (bool, error) {
	return t.s.Reservations.TicketCodeTakenTx(ctx, t.tx, code)
}

func (t *sqlTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	return t.s.Reservations.CreateTx(ctx, t.tx, r)
}

func (t *sqlTx) UpdateReservationStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	return t.s.Reservations.UpdateStatusTx(ctx, t.tx, id, status)
}

func (t *sqlTx) DeleteReservation(ctx context.Context, id uint64) error {
	return t.s.Reservations.DeleteTx(ctx, t.tx, id)
}
