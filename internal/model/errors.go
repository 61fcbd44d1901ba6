package model

// ValidationError is a field-level validation failure.  Handlers render it
// as a 400 response keyed by Field so clients can attach the message to
// the right input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
