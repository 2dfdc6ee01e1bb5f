package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidSelection is returned by Reserve when the seat list is empty,
// too long, or repeats a seat.  Nothing has been written when it is
// returned.
var ErrInvalidSelection = errors.New("invalid seat selection")

// ErrInvalidTransition is returned when a reservation cannot move to the
// requested status from its current one.
var ErrInvalidTransition = errors.New("invalid status transition")

// SeatUnavailableError reports the first seat found taken after its row
// lock was acquired.  The whole reservation batch has been rolled back.
type SeatUnavailableError struct {
	SeatID uint64
	Label  string
}

func (e *SeatUnavailableError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("seat %d (%s) is not available", e.SeatID, e.Label)
	}
	return fmt.Sprintf("seat %d is not available", e.SeatID)
}

// ValidationError lists input fields that failed validation, keyed by
// their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalidField(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
