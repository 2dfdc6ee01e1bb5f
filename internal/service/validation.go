package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs struct validation and converts the result into a
// *ValidationError keyed by JSON field path (e.g. "passenger.email").
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		out.Fields[key] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must match layout " + fe.Param()
	case "nefield":
		return "must differ from " + strings.ToLower(fe.Param())
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid"
}

// AircraftInput is the payload for registering or editing an aircraft.
type AircraftInput struct {
	Model      string `json:"model" validate:"required,max=100"`
	TailNumber string `json:"tail_number" validate:"required,max=20"`
	Capacity   int    `json:"capacity" validate:"gte=1,lte=1000"`
}

// ValidateAircraft normalizes the input (trimmed fields, upper-case tail
// number) and returns the aircraft it describes.
func ValidateAircraft(in AircraftInput) (model.Aircraft, error) {
	in.Model = strings.TrimSpace(in.Model)
	in.TailNumber = strings.ToUpper(strings.TrimSpace(in.TailNumber))
	if err := check(in); err != nil {
		return model.Aircraft{}, err
	}
	return model.Aircraft{Model: in.Model, TailNumber: in.TailNumber, Capacity: in.Capacity}, nil
}

// FlightInput is the payload for scheduling a flight.  Date uses
// model.DateLayout and Time uses model.TimeLayout.
type FlightInput struct {
	Origin          string `json:"origin" validate:"required,max=100"`
	Destination     string `json:"destination" validate:"required,max=100,nefield=Origin"`
	Date            string `json:"departure_date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"departure_time" validate:"required,datetime=15:04"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=1,lte=1440"`
	AircraftID      uint64 `json:"aircraft_id" validate:"required"`
}

// ValidateFlight checks a scheduling request and returns the flight it
// describes, without an id.
func ValidateFlight(in FlightInput) (model.Flight, error) {
	in.Origin = strings.TrimSpace(in.Origin)
	in.Destination = strings.TrimSpace(in.Destination)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	if err := check(in); err != nil {
		return model.Flight{}, err
	}
	date, err := time.Parse(model.DateLayout, in.Date)
	if err != nil {
		return model.Flight{}, invalidField("departure_date", "must match layout "+model.DateLayout)
	}
	return model.Flight{
		Origin:          in.Origin,
		Destination:     in.Destination,
		DepartureDate:   date,
		DepartureTime:   in.Time,
		DurationMinutes: in.DurationMinutes,
		AircraftID:      in.AircraftID,
	}, nil
}

// PassengerInput is the editable part of a passenger profile.
type PassengerInput struct {
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	DocumentID string  `json:"document_id" validate:"required,max=20"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
}

func (in PassengerInput) normalize() PassengerInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.DocumentID = strings.ToUpper(strings.TrimSpace(in.DocumentID))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Phone != nil {
		ph := strings.TrimSpace(*in.Phone)
		if ph == "" {
			in.Phone = nil
		} else {
			in.Phone = &ph
		}
	}
	return in
}

func (in PassengerInput) passenger() model.Passenger {
	return model.Passenger{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		DocumentID: in.DocumentID,
		Email:      in.Email,
		Phone:      in.Phone,
	}
}

// ValidatePassenger normalizes and checks a profile payload.
func ValidatePassenger(in PassengerInput) (model.Passenger, error) {
	in = in.normalize()
	if err := check(in); err != nil {
		return model.Passenger{}, err
	}
	return in.passenger(), nil
}

// SignupInput creates a passenger account together with its profile.  An
// empty profile email defaults to the account email.
type SignupInput struct {
	Email     string         `json:"email" validate:"required,email,max=255"`
	Password  string         `json:"password" validate:"required,min=8,max=72"`
	Passenger PassengerInput `json:"passenger"`
}

// ValidateSignup normalizes and checks a signup payload.
func ValidateSignup(in SignupInput) (SignupInput, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.Passenger.Email) == "" {
		in.Passenger.Email = in.Email
	}
	in.Passenger = in.Passenger.normalize()
	if err := check(in); err != nil {
		return SignupInput{}, err
	}
	return in, nil
}

// AccountInput creates an account without a passenger profile.
type AccountInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"oneof=STAFF PASSENGER"`
}

// ValidateSelection checks a seat list before any transaction is opened.
// It accepts 1 to limit distinct, non-zero seat ids.
func ValidateSelection(seatIDs []uint64, limit int) error {
	if len(seatIDs) == 0 {
		return fmt.Errorf("%w: no seats selected", ErrInvalidSelection)
	}
	if len(seatIDs) > limit {
		return fmt.Errorf("%w: at most %d seats per request, got %d", ErrInvalidSelection, limit, len(seatIDs))
	}
	seen := make(map[uint64]bool, len(seatIDs))
	for _, id := range seatIDs {
		if id == 0 {
			return fmt.Errorf("%w: seat id must be positive", ErrInvalidSelection)
		}
		if seen[id] {
			return fmt.Errorf("%w: seat %d selected twice", ErrInvalidSelection, id)
		}
		seen[id] = true
	}
	return nil
}

// ParseStatus reads a status name, case-insensitively.
func ParseStatus(s string) (model.ReservationStatus, error) {
	st := model.ReservationStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", invalidField("status", "must be one of HELD CONFIRMED CANCELLED CHECKED_IN")
	}
	return st, nil
}
