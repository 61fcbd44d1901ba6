package model

// TheatreHall describes the seating geometry of one venue hall.  Rows and
// SeatsInRow define the grid that ticket (row, seat) pairs are validated
// against; capacity is always derived from them, never stored, so
// availability math cannot drift from the base facts.
//
// Fields:
//
//	ID         - primary key identifier.
//	Name       - unique hall name.
//	Rows       - number of seating rows (rows are numbered 1..Rows).
//	SeatsInRow - seats per row (seats are numbered 1..SeatsInRow).
type TheatreHall struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Rows       uint32 `json:"rows"`
	SeatsInRow uint32 `json:"seats_in_row"`
}

// Capacity returns the total seat count of the hall.
func (h TheatreHall) Capacity() uint32 {
	return h.Rows * h.SeatsInRow
}
