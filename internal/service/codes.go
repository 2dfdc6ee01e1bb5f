package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SeatsPerRow is the number of seat columns used when labelling seats.
const SeatsPerRow = 6

// TicketCodeLength is the length of a reservation's ticket code.
const TicketCodeLength = 8

// NewTicketCode returns 8 upper-case hex characters taken from a random
// UUID.  Uniqueness is checked by the caller against stored codes.
func NewTicketCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:TicketCodeLength])
}

// SeatLabels returns n distinct seat labels in boarding order: rows are
// lettered A..Z, AA.. and each row has SeatsPerRow numbered columns
// (A1..A6, B1..B6, ...).
func SeatLabels(n int) []string {
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = fmt.Sprintf("%s%d", rowLabel(i/SeatsPerRow), i%SeatsPerRow+1)
	}
	return labels
}

// rowLabel converts a zero-based row index to letters: 0 -> A, 25 -> Z,
// 26 -> AA.
func rowLabel(i int) string {
	if i < 0 {
		return ""
	}
	var res []byte
	for {
		res = append(res, byte('A'+i%26))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}
