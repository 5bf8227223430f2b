package health

import "errors"

var (
	// ErrEmptyInput indicates a mean was requested over no values.
	ErrEmptyInput = errors.New("no scores to average")
	// ErrInvalidWeek indicates a period that is not of the form YYYY-Www.
	ErrInvalidWeek = errors.New("invalid week identifier")
	// ErrInvalidScore indicates a sub-score outside 1..5.
	ErrInvalidScore = errors.New("sub-score out of range")
	// ErrNoteTooLong indicates a justification above MaxNoteLength.
	ErrNoteTooLong = errors.New("justification too long")
	// ErrMissingDimension indicates an assessment input without every dimension.
	ErrMissingDimension = errors.New("missing dimension scores")
)
