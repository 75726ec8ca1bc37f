package audio

import "errors"

// ErrInvalidInput is the sentinel matched by every input validation failure
var ErrInvalidInput = errors.New("invalid input")

// InputError describes why a buffer or argument was rejected
type InputError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// NewInputError creates a new input error
func NewInputError(field, reason string) *InputError {
	return &InputError{
		Field:  field,
		Reason: reason,
	}
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Field + ": " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidInput) hold for any InputError
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}
