package model

// Actor is a performer that can be linked to any number of plays.
// Pure reference data: no lifecycle beyond admin CRUD.
type Actor struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName joins first and last name for display; play listings show
// actors by this value instead of nested objects.
func (a Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}
