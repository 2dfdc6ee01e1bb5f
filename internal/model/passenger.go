package model

import "time"

// Passenger is a traveller profile.  A profile may be linked to a user
// account (UserID) so the account holder can reserve seats and download
// tickets for it; staff can also create unlinked profiles.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – linked user account, nil when the profile is unlinked.
//  FirstName  – given name.
//  LastName   – surname.
//  DocumentID – passport or national id, unique across passengers.
//  Email      – contact email, unique across passengers.
//  Phone      – optional phone number.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Passenger struct {
	ID         uint64    `json:"id"`              // passengers.id
	UserID     *uint64   `json:"user_id"`         // passengers.user_id (nullable)
	FirstName  string    `json:"first_name"`      // passengers.first_name
	LastName   string    `json:"last_name"`       // passengers.last_name
	DocumentID string    `json:"document_id"`     // passengers.document_id
	Email      string    `json:"email"`           // passengers.email
	Phone      *string   `json:"phone,omitempty"` // passengers.phone (nullable)
	CreatedAt  time.Time `json:"created_at"`      // passengers.created_at
	UpdatedAt  time.Time `json:"updated_at"`      // passengers.updated_at
}

// FullName joins first and last name.
func (p Passenger) FullName() string { return p.FirstName + " " + p.LastName }

// OwnedBy reports whether the profile is linked to the given user.
func (p Passenger) OwnedBy(userID uint64) bool {
	return p.UserID != nil && *p.UserID == userID
}
