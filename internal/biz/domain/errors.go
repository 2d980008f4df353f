package domain

import (
	"errors"
	"strings"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrListingNotFound     = errors.New("listing not found")
	ErrApplicationNotFound = errors.New("application not found")

	ErrListingClosed    = errors.New("listing is not accepting applications")
	ErrOwnListing       = errors.New("cannot apply to own listing")
	ErrAlreadyApplied   = errors.New("already applied to this listing")
	ErrInvalidStatus    = errors.New("invalid application status")
	ErrStatusAlreadySet = errors.New("application already decided")
	ErrDuplicatePhone   = errors.New("phone number already registered")

	// ErrAIUnavailable means no AI backend is configured or reachable
	ErrAIUnavailable = errors.New("ai service unavailable")
	// ErrAIMalformed means the AI answered with an unusable payload
	ErrAIMalformed = errors.New("ai response malformed")
)

// MissingFieldsError lists required #ILAN fields that were not supplied
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing fields: " + strings.Join(e.Fields, ", ")
}
