package model

import "time"

// Performance is a scheduled showing of a play in a hall at a specific
// time.  At most one performance may exist per (hall, show_time) pair;
// the storage layer enforces this with uniq_show_time_per_hall.
type Performance struct {
	ID       uint64    `json:"id"`
	PlayID   uint64    `json:"play"`
	HallID   uint64    `json:"theatre_hall"`
	ShowTime time.Time `json:"show_time"`
}
