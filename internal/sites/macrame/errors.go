package macrame

import "fmt"

// ValidationError reports missing or malformed calculation input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ComputationError reports an arithmetic failure after input passed validation.
type ComputationError struct {
	Err error
}

func (e *ComputationError) Error() string {
	return "Computation failed: " + e.Err.Error()
}

func (e *ComputationError) Unwrap() error { return e.Err }

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
