/*
errors.go - Error taxonomy for the leave domain

Three categories cross the package boundary, all returned and never
fatal:

	ValidationError    bad input on request creation
	ErrNotFound        unknown request/policy/settings
	ErrStateConflict   transition attempted on a non-pending request

Authorization failures are produced by the calling layer; the core
assumes a pre-authorized actor. Balance computation never errors on
missing policy or settings data, it falls back to documented defaults.
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced request, policy, or
	// settings row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStateConflict is returned when a transition is attempted on a
	// request that is no longer pending. Under racing actors exactly one
	// transition succeeds; the loser observes this error.
	ErrStateConflict = errors.New("request already processed")
)

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

// Validation failure codes.
const (
	CodeInvalidType   = "invalid_type"
	CodeInvalidRange  = "invalid_range"
	CodeOverlap       = "overlap"
	CodeNoWorkingDays = "no_working_days"
)

// ValidationError reports a rejected request creation.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newValidationError(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsStateConflict(err error) bool { return errors.Is(err, ErrStateConflict) }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
