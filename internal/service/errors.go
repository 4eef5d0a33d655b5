package service

// ValidationError marks malformed or missing input caught before any
// storage access; handlers map it to 400 with the field-level message.
type ValidationError struct {
	msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}
