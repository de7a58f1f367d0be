package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrPreconditionFailed means the device does not have exactly five
	// strengths. Not retryable until onboarding is finished.
	ErrPreconditionFailed = errors.New("precondition failed: exactly five strengths required")
	// ErrStoreUnavailable means a collaborator store could not be reached.
	// Collaborators mark such errors by wrapping it. Callers fall back and retry
	// on the next request.
	ErrStoreUnavailable = errors.New("selection store unavailable")
	// ErrStoreFailed means the store answered but the operation failed.
	ErrStoreFailed = errors.New("selection store failed")
	// ErrNoProfile is returned by a StrengthStore that has no profile for the device.
	ErrNoProfile = errors.New("profile not found")
	// ErrInvalidInput covers an empty device id or a malformed date.
	ErrInvalidInput = errors.New("invalid selection input")
)

func storeFailure(op string, err error) error {
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrStoreFailed) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreFailed, op, err)
}
