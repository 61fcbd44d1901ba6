package model

// Play is a stage production that can be scheduled as performances.
// Actors and Genres are many-to-many links; Image holds the relative path
// of an uploaded poster, nil until one is uploaded.
//
// A play cannot be deleted while performances reference it (FK RESTRICT).
type Play struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DurationMin uint32  `json:"duration"`
	Image       *string `json:"image,omitempty"`
	Actors      []Actor `json:"actors,omitempty"`
	Genres      []Genre `json:"genres,omitempty"`
}
