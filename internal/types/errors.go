package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Bankroll errors
	ErrInsufficientBankroll ErrorCode = "INSUFFICIENT_BANKROLL"

	// Action errors
	ErrInvalidAction     ErrorCode = "INVALID_ACTION"
	ErrInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrInvalidPayoutType ErrorCode = "INVALID_PAYOUT_TYPE"
	ErrInvalidArgument   ErrorCode = "INVALID_ARGUMENT"

	// Round state errors
	ErrRoundInProgress ErrorCode = "ROUND_IN_PROGRESS"
	ErrRoundNotDealt   ErrorCode = "ROUND_NOT_DEALT"
	ErrHandNotFound    ErrorCode = "HAND_NOT_FOUND"

	// Collaborator errors
	ErrShoeExhausted    ErrorCode = "SHOE_EXHAUSTED"
	ErrRetriesExhausted ErrorCode = "RETRIES_EXHAUSTED"

	// System errors
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"
)

// GameError represents a game-related error
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GameError) Unwrap() error {
	return e.Err
}

// NewGameError creates a new GameError
func NewGameError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a GameError
func WrapError(code ErrorCode, message string, err error) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsGameError checks if an error is a GameError and has a specific code
func IsGameError(err error, code ErrorCode) bool {
	var gameErr *GameError
	if err == nil {
		return false
	}
	if ok := As(err, &gameErr); !ok {
		return false
	}
	return gameErr.Code == code
}

// As is a helper function to safely type assert an error to a GameError,
// unwrapping as needed.
func As(err error, target **GameError) bool {
	if target == nil {
		return false
	}
	return errors.As(err, target)
}
