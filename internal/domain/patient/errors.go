package patient

import "errors"

// Sentinel errors returned by store, service and persistence operations.
var (
	ErrDuplicateID      = errors.New("patient id is already registered")
	ErrCapacityExceeded = errors.New("patient capacity is full")
	ErrNotFound         = errors.New("patient not found")
	ErrAlreadyDiagnosed = errors.New("patient already has a diagnosis; use update to change it")
	ErrInvalidInput     = errors.New("invalid input")
	ErrWriteFailed      = errors.New("failed to save patient data")
	ErrParseFailed      = errors.New("failed to parse patient data")
)
