package qualify

import (
	"errors"

	"github.com/creativeiyke/agency-platform/internal/leads"
)

var (
	// ErrInvalidTransition is returned when an action is not available in the current view or step.
	ErrInvalidTransition = errors.New("qualify: action not available in current view")

	// ErrBusy is returned while an analysis call is in flight.
	ErrBusy = errors.New("qualify: analysis already in progress")

	// ErrStepIncomplete is returned when the current step's required fields are missing.
	ErrStepIncomplete = errors.New("qualify: required fields missing")

	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("qualify: session not found")

	// ErrRejected is returned by guards that classify a submission as automated.
	ErrRejected = errors.New("qualify: submission rejected")

	ErrUnknownSector = leads.ErrUnknownSector
	ErrUnknownScope  = leads.ErrUnknownScope
	ErrUnknownBudget = leads.ErrUnknownBudget
)
