package service

import (
	"context"
	"strings"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
)

// Issuer builds ticket documents for the account that owns the passenger
// profile.
type Issuer struct {
	store Store
}

func NewIssuer(store Store) *Issuer { return &Issuer{store: store} }

// Issue returns the ticket of a reservation.  Callers whose account is not
// linked to the reservation's passenger get ErrForbidden and no data.
func (i *Issuer) Issue(ctx context.Context, reservationID, userID uint64) (model.TicketDocument, error) {
	doc, err := i.store.TicketByReservation(ctx, reservationID)
	if err != nil {
		return model.TicketDocument{}, err
	}
	return authorize(doc, userID)
}

// Lookup resolves a ticket code, case-insensitively, with the same
// ownership check as Issue.
func (i *Issuer) Lookup(ctx context.Context, code string, userID uint64) (model.TicketDocument, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != TicketCodeLength {
		return model.TicketDocument{}, invalidField("code", "must be 8 characters")
	}
	doc, err := i.store.TicketByCode(ctx, code)
	if err != nil {
		return model.TicketDocument{}, err
	}
	return authorize(doc, userID)
}

func authorize(doc model.TicketDocument, userID uint64) (model.TicketDocument, error) {
	if doc.PassengerUserID == nil || *doc.PassengerUserID != userID {
		return model.TicketDocument{}, repository.ErrForbidden
	}
	return doc, nil
}
