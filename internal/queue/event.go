// Package queue defines the messages published to RabbitMQ and the
// background consumer that processes them.
package queue

// EventSeat is one booked seat inside a confirmation event.
type EventSeat struct {
	PerformanceID uint64 `json:"performance_id"`
	PlayTitle     string `json:"play_title"`
	HallName      string `json:"hall_name"`
	ShowTime      string `json:"show_time"`
	Row           int    `json:"row"`
	Seat          int    `json:"seat"`
}

// ReservationConfirmedEvent is published after a reservation commits.
// It carries enough detail for downstream consumers to log or notify
// without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64      `json:"reservation_id"`
	UserID        uint64      `json:"user_id"`
	Seats         []EventSeat `json:"seats"`
	ConfirmedAt   string      `json:"confirmed_at"`
}
