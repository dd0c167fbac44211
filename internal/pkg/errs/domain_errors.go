package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Resource errors
	ErrResourceNotFound = errors.New("kiln not found")

	// Member errors
	ErrMemberNotFound = errors.New("member not found")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationSettled  = errors.New("reservation already settled")

	// Authorization errors
	ErrCapabilityRequired = errors.New("capability required")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

// Conflict errors
var (
	ErrSlotTaken         = errors.New("kiln already booked on this date")
	ErrResourceNameTaken = errors.New("kiln name already in use")
	ErrOverrideNotFound  = errors.New("tariff override not found")
)
