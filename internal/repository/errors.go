// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// services and handlers to distinguish between failure scenarios without
// inspecting driver errors.  Wrap them with fmt.Errorf("...: %w") and test
// with errors.Is.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row with the requested id (or code) does
// not exist.  Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own.  Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as deleting a flight
// that still has reservations.  Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// Uniqueness and reference violations.
var (
	ErrDuplicateTailNumber = errors.New("tail number already registered")
	ErrDuplicateDocument   = errors.New("document id already registered")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrEmailExists         = errors.New("email already exists")
	ErrAircraftInUse       = errors.New("aircraft has scheduled flights")
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
)

// indexErrors maps unique index names from schema.sql to sentinel errors.
var indexErrors = map[string]error{
	"uq_aircraft_tail_number": ErrDuplicateTailNumber,
	"uq_passengers_document":  ErrDuplicateDocument,
	"uq_passengers_email":     ErrDuplicateEmail,
	"uq_users_email":          ErrEmailExists,
}

// mapWriteError converts MySQL constraint violations into sentinel errors.
// Duplicate entries on a known index map to that index's error; any other
// duplicate or a foreign key reference becomes ErrConflict.  Other errors
// are returned unchanged.
func mapWriteError(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlDuplicateEntry:
		for index, sentinel := range indexErrors {
			if strings.Contains(me.Message, index) {
				return sentinel
			}
		}
		return ErrConflict
	case mysqlRowIsReferenced:
		return ErrConflict
	}
	return err
}
