package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ma1k10/Airplanes-Repository/internal/config"
	"github.com/Ma1k10/Airplanes-Repository/internal/middleware"
	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
	"github.com/Ma1k10/Airplanes-Repository/internal/service"
	"github.com/Ma1k10/Airplanes-Repository/internal/utils"
)

const testSecret = "handler-secret"

var testCfg = config.Config{JWTSecret: testSecret, AccessTTLMin: 5, RefreshTTLDays: 1}

func token(t *testing.T, userID uint64, role string) string {
	t.Helper()
	at, err := utils.NewAccessToken(testSecret, userID, role, 5)
	require.NoError(t, err)
	return "Bearer " + at.Token
}

func do(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func passengerServer(h *PassengerHandler) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", middleware.JWTAuth(testSecret), middleware.RequireRole(model.RolePassenger))
	g.POST("/reservations", h.Reserve)
	g.POST("/reservations/:id/cancel", h.Cancel)
	g.GET("/reservations/:id/ticket", h.Ticket)
	g.GET("/tickets/:code", h.TicketByCode)
	g.GET("/my-reservations", h.MyReservations)
	return e
}

func TestReserve(t *testing.T) {
	uid := uint64(5)
	profile := model.Passenger{ID: 40, UserID: &uid}

	tests := []struct {
		name       string
		body       string
		serviceErr error
		status     int
		contains   string
	}{
		{"created", `{"seat_ids":[11,12]}`, nil, http.StatusCreated, `"ticket_code":"ABCD1234"`},
		{"seat taken", `{"seat_ids":[11,12]}`, &service.SeatUnavailableError{SeatID: 12, Label: "A2"}, http.StatusConflict, `"seat_label":"A2"`},
		{"bad selection", `{"seat_ids":[11,12]}`, fmt.Errorf("%w: seat 11 selected twice", service.ErrInvalidSelection), http.StatusBadRequest, "selected twice"},
		{"unknown seat", `{"seat_ids":[11,12]}`, fmt.Errorf("seat 12: %w", repository.ErrNotFound), http.StatusNotFound, "not found"},
		{"store failure", `{"seat_ids":[11,12]}`, errors.New("connection reset"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := &mockDirectory{}
			dir.On("GetByUser", mock.Anything, uid).Return(profile, nil)
			eng := &mockEngine{}
			result := service.ReservationResult{PassengerID: 40, Reservations: []model.Reservation{
				{ID: 1, SeatID: 11, Status: model.StatusHeld, TicketCode: "ABCD1234"},
				{ID: 2, SeatID: 12, Status: model.StatusHeld, TicketCode: "EFGH5678"},
			}}
			if tt.serviceErr != nil {
				result = service.ReservationResult{}
			}
			eng.On("Reserve", mock.Anything, uint64(40), []uint64{11, 12}).Return(result, tt.serviceErr)

			e := passengerServer(NewPassengerHandler(dir, eng, &mockIssuer{}))
			rec := do(e, http.MethodPost, "/v1/reservations", token(t, uid, model.RolePassenger), tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
			eng.AssertExpectations(t)
		})
	}
}

func TestReserveRequiresPassengerRole(t *testing.T) {
	e := passengerServer(NewPassengerHandler(&mockDirectory{}, &mockEngine{}, &mockIssuer{}))
	rec := do(e, http.MethodPost, "/v1/reservations", token(t, 1, model.RoleStaff), `{"seat_ids":[1]}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPost, "/v1/reservations", "", `{"seat_ids":[1]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReserveWithoutProfile(t *testing.T) {
	dir := &mockDirectory{}
	dir.On("GetByUser", mock.Anything, uint64(9)).Return(model.Passenger{}, repository.ErrNotFound)
	eng := &mockEngine{}
	e := passengerServer(NewPassengerHandler(dir, eng, &mockIssuer{}))

	rec := do(e, http.MethodPost, "/v1/reservations", token(t, 9, model.RolePassenger), `{"seat_ids":[1]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	eng.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelOthersReservationIsForbidden(t *testing.T) {
	uid := uint64(5)
	dir := &mockDirectory{}
	dir.On("GetByUser", mock.Anything, uid).Return(model.Passenger{ID: 40, UserID: &uid}, nil)
	eng := &mockEngine{}
	eng.On("CancelFor", mock.Anything, uint64(77), uint64(40)).Return(model.Reservation{}, repository.ErrForbidden)
	e := passengerServer(NewPassengerHandler(dir, eng, &mockIssuer{}))

	rec := do(e, http.MethodPost, "/v1/reservations/77/cancel", token(t, uid, model.RolePassenger), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/v1/reservations/abc/cancel", token(t, uid, model.RolePassenger), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicket(t *testing.T) {
	iss := &mockIssuer{}
	iss.On("Issue", mock.Anything, uint64(3), uint64(5)).Return(model.TicketDocument{
		ReservationID: 3, TicketCode: "ABCD1234", SeatLabel: "C4", PassengerName: "Ana Silva",
	}, nil)
	iss.On("Issue", mock.Anything, uint64(4), uint64(5)).Return(model.TicketDocument{}, repository.ErrForbidden)
	iss.On("Lookup", mock.Anything, "abcd1234", uint64(5)).Return(model.TicketDocument{ReservationID: 3}, nil)
	e := passengerServer(NewPassengerHandler(&mockDirectory{}, &mockEngine{}, iss))
	auth := token(t, 5, model.RolePassenger)

	rec := do(e, http.MethodGet, "/v1/reservations/3/ticket", auth, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "C4", doc["seat_label"])
	assert.NotContains(t, doc, "PassengerUserID")

	rec = do(e, http.MethodGet, "/v1/reservations/4/ticket", auth, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "ticket_code")

	rec = do(e, http.MethodGet, "/v1/tickets/abcd1234", auth, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublicListSeatsFilter(t *testing.T) {
	inv := &mockInventory{}
	inv.On("ListSeats", mock.Anything, uint64(8)).Return([]model.Seat{{ID: 1}, {ID: 2}}, nil)
	inv.On("ListAvailable", mock.Anything, uint64(8)).Return([]model.Seat{{ID: 2, Available: true}}, nil)
	inv.On("ListOccupied", mock.Anything, uint64(8)).Return([]model.Seat{{ID: 1}}, nil)
	inv.On("ListSeats", mock.Anything, uint64(9)).Return([]model.Seat(nil), repository.ErrNotFound)

	h := NewPublicHandler(nil, nil, inv)
	e := echo.New()
	e.GET("/v1/flights/:id/seats", h.ListSeats)

	tests := []struct {
		path   string
		status int
		count  int
	}{
		{"/v1/flights/8/seats", http.StatusOK, 2},
		{"/v1/flights/8/seats?available=true", http.StatusOK, 1},
		{"/v1/flights/8/seats?available=false", http.StatusOK, 1},
		{"/v1/flights/8/seats?available=maybe", http.StatusBadRequest, -1},
		{"/v1/flights/9/seats", http.StatusNotFound, -1},
		{"/v1/flights/0/seats", http.StatusBadRequest, -1},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(e, http.MethodGet, tt.path, "", "")
			assert.Equal(t, tt.status, rec.Code)
			if tt.count >= 0 {
				var seats []model.Seat
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seats))
				assert.Len(t, seats, tt.count)
			}
		})
	}
}

func TestStaffSetStatus(t *testing.T) {
	eng := &mockEngine{}
	eng.On("SetStatus", mock.Anything, uint64(3), model.StatusConfirmed).
		Return(model.Reservation{ID: 3, Status: model.StatusConfirmed}, nil)
	eng.On("SetStatus", mock.Anything, uint64(4), model.StatusHeld).
		Return(model.Reservation{}, fmt.Errorf("%w: CONFIRMED -> HELD", service.ErrInvalidTransition))
	h := &StaffHandler{Reservations: eng}
	e := echo.New()
	e.PATCH("/v1/staff/reservations/:id/status", h.SetReservationStatus)

	rec := do(e, http.MethodPatch, "/v1/staff/reservations/3/status", "", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"CONFIRMED"`)

	rec = do(e, http.MethodPatch, "/v1/staff/reservations/4/status", "", `{"status":"HELD"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPatch, "/v1/staff/reservations/4/status", "", `{"status":"BOARDED"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fields"`)
	eng.AssertNumberOfCalls(t, "SetStatus", 2)
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&service.ValidationError{Fields: map[string]string{"capacity": "must be at least 1"}}, http.StatusBadRequest},
		{service.ErrInvalidSelection, http.StatusBadRequest},
		{repository.ErrNotFound, http.StatusNotFound},
		{repository.ErrForbidden, http.StatusForbidden},
		{&service.SeatUnavailableError{SeatID: 1}, http.StatusConflict},
		{fmt.Errorf("CS-ABC: %w", repository.ErrDuplicateTailNumber), http.StatusConflict},
		{repository.ErrDuplicateDocument, http.StatusConflict},
		{repository.ErrDuplicateEmail, http.StatusConflict},
		{repository.ErrEmailExists, http.StatusConflict},
		{repository.ErrAircraftInUse, http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{service.ErrInvalidTransition, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			require.NoError(t, respondError(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), "CS-ABC")
		})
	}
}

func authServer(h *AuthHandler) *echo.Echo {
	e := echo.New()
	e.POST("/v1/auth/register", h.Register)
	e.POST("/v1/auth/login", h.Login)
	e.POST("/v1/auth/refresh", h.Refresh)
	e.POST("/v1/auth/logout", h.Logout)
	return e
}

func TestRegisterPassengerCreatesProfile(t *testing.T) {
	acc := &mockAccounts{}
	uid := uint64(21)
	acc.On("Signup", mock.Anything, mock.MatchedBy(func(in service.SignupInput) bool {
		return in.Email == "rita@example.com" && in.Passenger.DocumentID == "P1"
	})).Return(
		model.User{ID: uid, Email: "rita@example.com", Role: model.RolePassenger},
		model.Passenger{ID: 3, UserID: &uid, DocumentID: "P1"},
		nil,
	)
	tokens := &mockTokens{}
	tokens.On("StoreRefresh", mock.Anything, uid, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	e := authServer(NewAuthHandler(testCfg, &mockUsers{}, tokens, acc))
	rec := do(e, http.MethodPost, "/v1/auth/register", "",
		`{"email":"rita@example.com","password":"longenough","passenger":{"first_name":"Rita","last_name":"Reis","document_id":"P1"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.RolePassenger, resp.User.Role)
	require.NotNil(t, resp.Passenger)
	assert.Equal(t, uint64(3), resp.Passenger.ID)
	claims, err := utils.ParseAccessToken(testSecret, resp.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RolePassenger, claims.Role)

	rec = do(e, http.MethodPost, "/v1/auth/register", "", `{"email":"x@example.com","password":"longenough","role":"PILOT"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &mockUsers{}
	users.On("GetByEmail", mock.Anything, "ops@example.com").
		Return(model.User{ID: 2, Email: "ops@example.com", Role: model.RoleStaff, PasswordHash: string(hash), IsActive: true}, nil)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(model.User{}, fmt.Errorf("user: %w", repository.ErrNotFound))
	tokens := &mockTokens{}
	tokens.On("StoreRefresh", mock.Anything, uint64(2), mock.Anything, mock.Anything).Return(nil)
	e := authServer(NewAuthHandler(testCfg, users, tokens, &mockAccounts{}))

	rec := do(e, http.MethodPost, "/v1/auth/login", "", `{"email":"ops@example.com","password":"right-password"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(e, http.MethodPost, "/v1/auth/login", "", `{"email":"ops@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(e, http.MethodPost, "/v1/auth/login", "", `{"email":"nobody@example.com","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	tokens.AssertNumberOfCalls(t, "StoreRefresh", 1)
}

func TestRefreshRotatesToken(t *testing.T) {
	hash := utils.HashRefreshRaw("old-refresh")
	tokens := &mockTokens{}
	tokens.On("ValidateRefresh", mock.Anything, hash).Return(uint64(2), nil)
	tokens.On("ValidateRefresh", mock.Anything, mock.Anything).Return(uint64(0), repository.ErrNotFound)
	tokens.On("RevokeByHash", mock.Anything, hash).Return(nil)
	tokens.On("StoreRefresh", mock.Anything, uint64(2), mock.Anything, mock.Anything).Return(nil)
	users := &mockUsers{}
	users.On("GetByID", mock.Anything, uint64(2)).Return(model.User{ID: 2, Role: model.RoleStaff}, nil)
	e := authServer(NewAuthHandler(testCfg, users, tokens, &mockAccounts{}))

	rec := do(e, http.MethodPost, "/v1/auth/refresh", "", `{"refresh_token":"old-refresh"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	tokens.AssertCalled(t, "RevokeByHash", mock.Anything, hash)

	rec = do(e, http.MethodPost, "/v1/auth/refresh", "", `{"refresh_token":"unknown"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutAllSessions(t *testing.T) {
	tokens := &mockTokens{}
	tokens.On("RevokeAllForUser", mock.Anything, uint64(6)).Return(nil)
	e := authServer(NewAuthHandler(testCfg, &mockUsers{}, tokens, &mockAccounts{}))

	rec := do(e, http.MethodPost, "/v1/auth/logout", token(t, 6, model.RolePassenger), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	tokens.AssertExpectations(t)

	rec = do(e, http.MethodPost, "/v1/auth/logout", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchFlightsQuery(t *testing.T) {
	cat := &mockCatalog{}
	cat.On("Search", mock.Anything, service.SearchInput{
		Origin: "lis", Destination: "opo", From: "2026-11-01", OnlyAvailable: true, Page: 2, PageSize: 10,
	}).Return(service.SearchPage{Total: 11, Page: 2, PageSize: 10}, nil)
	cat.On("Search", mock.Anything, service.SearchInput{From: "yesterday"}).
		Return(service.SearchPage{}, &service.ValidationError{Fields: map[string]string{"from": "must match layout 2006-01-02"}})

	h := NewPublicHandler(nil, cat, nil)
	e := echo.New()
	e.GET("/v1/search/flights", h.SearchFlights)

	rec := do(e, http.MethodGet, "/v1/search/flights?origin=lis&destination=opo&from=2026-11-01&available=true&page=2&page_size=10", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":11`)

	rec = do(e, http.MethodGet, "/v1/search/flights?from=yesterday", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	cat.AssertExpectations(t)
}
