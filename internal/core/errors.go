package core

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrEmptyText              = errors.New("text must not be empty")
	ErrInvalidAmount          = errors.New("amount must be a positive number")
	ErrInvalidHours           = errors.New("hours must be a positive number")
	ErrInvalidRate            = errors.New("rate must be a positive number")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidPriority        = errors.New("invalid priority")
	ErrInvalidWeekday         = errors.New("invalid weekday")
	ErrInvalidWorkType        = errors.New("invalid work type")
	ErrInvalidMood            = errors.New("invalid mood")
	ErrInvalidCategory        = errors.New("invalid category")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidCycle           = errors.New("invalid billing cycle")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// ValidationError reports rejected input for a single field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// Invalid wraps err as a ValidationError for field.
func Invalid(field string, err error) error { return invalid(field, err) }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
