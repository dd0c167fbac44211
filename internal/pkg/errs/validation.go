package errs

// ValidationError reports rejected input before anything is persisted.
// errors.Is(err, ErrDomainValidation) holds for every ValidationError, and
// the underlying domain error stays reachable through Unwrap.
type ValidationError struct {
	Field string
	Err   error
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "invalid " + e.Field
	}
	return "invalid " + e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrDomainValidation
}
