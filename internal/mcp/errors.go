package mcp

import (
	"errors"
	"fmt"

	"github.com/luisamog/ARKHO-PHS/internal/domain/activity"
	"github.com/luisamog/ARKHO-PHS/internal/domain/health"
	"github.com/luisamog/ARKHO-PHS/internal/domain/project"
)

// ErrUnknownMethod is returned by Handle for methods outside the catalog.
var ErrUnknownMethod = errors.New("unknown method")

// ErrInvalidParams wraps argument decoding failures.
var ErrInvalidParams = errors.New("invalid params")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes. The most specific cause
// wins: a bad week wrapped in an invalid-input error reports INVALID_WEEK.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects to find the ID"}
	case errors.Is(err, project.ErrDuplicateID):
		return &APIError{Code: "DUPLICATE_PROJECT", Message: "a project with this id already exists", RecoveryHint: "Omit id to generate one"}
	case errors.Is(err, health.ErrInvalidWeek):
		return &APIError{Code: "INVALID_WEEK", Message: err.Error(), RecoveryHint: "Use the YYYY-Www form, e.g. 2024-W07"}
	case errors.Is(err, health.ErrInvalidScore):
		return &APIError{Code: "INVALID_SCORE", Message: err.Error(), RecoveryHint: "Every sub-score must be an integer from 1 to 5"}
	case errors.Is(err, health.ErrMissingDimension):
		return &APIError{Code: "MISSING_DIMENSION", Message: err.Error(), RecoveryHint: "Score all five dimensions: EN, EQ, SH, VA, RI"}
	case errors.Is(err, health.ErrNoteTooLong):
		return &APIError{Code: "NOTE_TOO_LONG", Message: err.Error(), RecoveryHint: fmt.Sprintf("Keep each note under %d characters", health.MaxNoteLength)}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, ErrUnknownMethod):
		return &APIError{Code: "UNKNOWN_METHOD", Message: err.Error(), RecoveryHint: "Call tools/list for the catalog"}
	default:
		return nil
	}
}
