package types

import "errors"

// Table operation errors.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidData        = errors.New("invalid record data")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Game session errors.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadySolvedToday = errors.New("already solved today")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrNoIdentity         = errors.New("no player identity")
)
