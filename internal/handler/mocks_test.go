package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/service"
)

type mockEngine struct{ mock.Mock }

func (m *mockEngine) Reserve(ctx context.Context, passengerID uint64, seatIDs []uint64) (service.ReservationResult, error) {
	args := m.Called(ctx, passengerID, seatIDs)
	return args.Get(0).(service.ReservationResult), args.Error(1)
}

func (m *mockEngine) CancelFor(ctx context.Context, reservationID, passengerID uint64) (model.Reservation, error) {
	args := m.Called(ctx, reservationID, passengerID)
	return args.Get(0).(model.Reservation), args.Error(1)
}

func (m *mockEngine) SetStatus(ctx context.Context, reservationID uint64, status model.ReservationStatus) (model.Reservation, error) {
	args := m.Called(ctx, reservationID, status)
	return args.Get(0).(model.Reservation), args.Error(1)
}

func (m *mockEngine) Delete(ctx context.Context, reservationID uint64) error {
	return m.Called(ctx, reservationID).Error(0)
}

func (m *mockEngine) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Reservation), args.Error(1)
}

func (m *mockEngine) ListByPassenger(ctx context.Context, passengerID uint64) ([]model.Reservation, error) {
	args := m.Called(ctx, passengerID)
	return args.Get(0).([]model.Reservation), args.Error(1)
}

type mockIssuer struct{ mock.Mock }

func (m *mockIssuer) Issue(ctx context.Context, reservationID, userID uint64) (model.TicketDocument, error) {
	args := m.Called(ctx, reservationID, userID)
	return args.Get(0).(model.TicketDocument), args.Error(1)
}

func (m *mockIssuer) Lookup(ctx context.Context, code string, userID uint64) (model.TicketDocument, error) {
	args := m.Called(ctx, code, userID)
	return args.Get(0).(model.TicketDocument), args.Error(1)
}

// mockDirectory only answers the calls the passenger handler makes.
type mockDirectory struct {
	mock.Mock
	PassengerDirectory
}

func (m *mockDirectory) GetByUser(ctx context.Context, userID uint64) (model.Passenger, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Passenger), args.Error(1)
}

func (m *mockDirectory) UpdateForUser(ctx context.Context, userID uint64, in service.PassengerInput) (model.Passenger, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(model.Passenger), args.Error(1)
}

type mockInventory struct {
	mock.Mock
	SeatInventory
}

func (m *mockInventory) ListSeats(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]model.Seat), args.Error(1)
}

func (m *mockInventory) ListAvailable(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]model.Seat), args.Error(1)
}

func (m *mockInventory) ListOccupied(ctx context.Context, flightID uint64) ([]model.Seat, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).([]model.Seat), args.Error(1)
}

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) Signup(ctx context.Context, in service.SignupInput) (model.User, model.Passenger, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.User), args.Get(1).(model.Passenger), args.Error(2)
}

func (m *mockAccounts) CreateAccount(ctx context.Context, in service.AccountInput) (model.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.User), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	return m.Called(ctx, userID, tokenHash, exp).Error(0)
}

func (m *mockTokens) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockTokens) RevokeByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockTokens) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockCatalog struct {
	mock.Mock
	FlightCatalog
}

func (m *mockCatalog) Search(ctx context.Context, in service.SearchInput) (service.SearchPage, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(service.SearchPage), args.Error(1)
}
