package quiz

import (
	"errors"
	"fmt"
)

// Not-found and conflict conditions are terminal for the request; nothing in
// this package retries them. Callers decide whether a retry makes sense.
var (
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrAlreadySubmitted    = errors.New("attempt already submitted")
	ErrCertificateNotFound = errors.New("certificate not found")
)

// Policy violation reasons.
const (
	ReasonMultipleAttempts = "multiple attempts not allowed"
	ReasonMaxAttempts      = "maximum attempts reached"
)

// PolicyError reports an attempt-start gate failure with enough context for a
// caller to explain it: the existing attempt for the single-attempt gate, the
// usage counters for the max-attempts gate.
type PolicyError struct {
	Reason            string `json:"reason"`
	ExistingAttemptID string `json:"existing_attempt_id,omitempty"`
	AttemptsUsed      int    `json:"attempts_used,omitempty"`
	MaxAttempts       int    `json:"max_attempts,omitempty"`
}

func (e *PolicyError) Error() string { return e.Reason }

// ValidationError reports a missing required field, surfaced before anything
// is persisted.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
