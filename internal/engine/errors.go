package engine

import (
	"errors"
	"fmt"
	"time"
)

// Failure kinds surfaced by the engine. Storage errors from the persistence
// layer are propagated unchanged; the engine never retries.
var (
	// ErrInvalidToken indicates an audit token that is malformed, truncated,
	// or does not decrypt to a well-formed identity record.
	ErrInvalidToken = errors.New("invalid audit token")
	// ErrInvalidSeverity indicates a violation severity outside 1..3.
	ErrInvalidSeverity = errors.New("invalid violation severity")
	// ErrNotConfigured indicates the community has no usable configuration yet.
	ErrNotConfigured = errors.New("community not configured")
	// ErrNotFound indicates a referenced submission or restriction is absent.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the acting user lacks moderator capability.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("invalid configuration value")
)

// RateLimitedError reports that the submission cooldown has not elapsed.
type RateLimitedError struct {
	Remaining time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %ds", int(e.Remaining.Seconds())+1)
}

// RestrictedError reports that the submitter is under an active restriction.
type RestrictedError struct {
	Until time.Time
}

func (e *RestrictedError) Error() string {
	return fmt.Sprintf("restricted from submitting until %s", e.Until.Format(time.RFC3339))
}
