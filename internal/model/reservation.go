package model

import "time"

// Reservation is a batch of tickets booked together by one user.  It only
// ever comes into existence through the atomic booking commit: a
// reservation row is never persisted without at least one ticket, and a
// failed ticket insert rolls the reservation back with it.
type Reservation struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
