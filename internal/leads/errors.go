package leads

import "errors"

var (
	// ErrInvalidName is returned when the name is invalid
	ErrInvalidName = errors.New("name is required")

	// ErrMissingContact is returned when the email is missing
	ErrMissingContact = errors.New("email is required")

	// ErrMissingSector is returned when no sector was chosen
	ErrMissingSector = errors.New("sector is required")

	// ErrMissingScope is returned when no scope item was chosen
	ErrMissingScope = errors.New("at least one scope item is required")

	// ErrMissingBudget is returned when neither a band nor a custom amount was given
	ErrMissingBudget = errors.New("budget is required")

	ErrUnknownSector = errors.New("unknown sector")
	ErrUnknownScope  = errors.New("unknown scope item")
	ErrUnknownBudget = errors.New("unknown budget band")
)
