package model

// Genre is a named category for plays.  Names are unique at the storage
// layer (uniq_genres_name).
type Genre struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
