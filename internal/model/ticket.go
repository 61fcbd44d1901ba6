package model

import "fmt"

// Ticket is a claim on one seat (row, seat) for one performance.  The
// (performance, row, seat) triple is globally unique; the database key
// uniq_seat_per_performance is the only mechanism that enforces it, so
// tickets are created exclusively inside the reservation commit
// transaction and removed only by cascade.
type Ticket struct {
	ID            uint64 `json:"id"`
	ReservationID uint64 `json:"-"`
	PerformanceID uint64 `json:"performance"`
	Row           uint32 `json:"row"`
	Seat          uint32 `json:"seat"`
}

// ValidateSeat checks a (row, seat) pair against hall geometry.  Rows and
// seats are 1-based.  The returned error is a *ValidationError keyed by
// the offending field.
func ValidateSeat(row, seat uint32, hall TheatreHall) error {
	if row < 1 || row > hall.Rows {
		return &ValidationError{
			Field:   "row",
			Message: fmt.Sprintf("row number must be between 1 and %d", hall.Rows),
		}
	}
	if seat < 1 || seat > hall.SeatsInRow {
		return &ValidationError{
			Field:   "seat",
			Message: fmt.Sprintf("seat number must be between 1 and %d", hall.SeatsInRow),
		}
	}
	return nil
}
