package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Placement record errors
var (
	ErrRecordNotFound = errors.New("placement record not found")
	ErrDuplicateRegNo = errors.New("registration number already exists")
)

// Ingestion errors
var (
	ErrEmptyUpload      = errors.New("uploaded file is empty")
	ErrCSVHeaderInvalid = errors.New("csv header row is missing or unreadable")
)

// Persistence / collaborator errors
var (
	ErrStorageUnavailable = errors.New("data store unavailable")
	ErrFetchFailed        = errors.New("failed to fetch placement records")
	ErrExportFailed       = errors.New("failed to export placement records")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return NewCustomError(ErrBadRequest, message)
}
