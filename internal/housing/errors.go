package housing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	ErrValidationFailed    = errors.New("validation failed")
	ErrCapacityExceeded    = errors.New("group is full")
	ErrNotLockable         = errors.New("group cannot be locked")
	ErrInvalidSize         = errors.New("size is not available")
	ErrNoSuiteAvailable    = errors.New("no suite available")
	ErrAlreadyAssigned     = errors.New("lottery numbers already assigned")
	ErrAlreadyActive       = errors.New("draw is already active")
	ErrNotLotteryReady     = errors.New("draw is not ready for the lottery")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrNotEligible         = errors.New("student is not eligible")
	ErrDuplicateMembership = errors.New("membership already exists")
	ErrNotAuthorized       = errors.New("not authorized")
)

// Invariant names one of the rules a group must satisfy before it is saved.
type Invariant string

const (
	InvariantSizePositive   Invariant = "size_positive"
	InvariantSizeAvailable  Invariant = "size_available"
	InvariantCapacity       Invariant = "capacity"
	InvariantLockedStatus   Invariant = "locked_status"
	InvariantFullStatus     Invariant = "full_status"
	InvariantOpenStatus     Invariant = "open_status"
	InvariantTransfers      Invariant = "transfers"
	InvariantStatusPresent  Invariant = "status_present"
	InvariantLeaderPresent  Invariant = "leader_present"
	InvariantLeaderMember   Invariant = "leader_member"
	InvariantMembershipKind Invariant = "membership_status"
)

// Violation is one broken invariant.
type Violation struct {
	Invariant Invariant
	Message   string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Invariant, v.Message)
}

// Violations is the result of validating a group. Empty means valid.
type Violations []Violation

// Has reports whether inv is among the violations.
func (vs Violations) Has(inv Invariant) bool {
	for _, v := range vs {
		if v.Invariant == inv {
			return true
		}
	}
	return false
}

// Err returns nil when there are no violations and a *ValidationError otherwise.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	merr := &multierror.Error{ErrorFormat: joinViolations}
	for _, v := range vs {
		merr = multierror.Append(merr, v)
	}
	return &ValidationError{Violations: vs, errs: merr}
}

func joinViolations(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// ValidationError reports every invariant a group failed.
// It matches ErrValidationFailed, and ErrInvalidSize when the size is unavailable.
// Each Violation can be extracted with errors.As.
type ValidationError struct {
	Violations Violations
	errs       *multierror.Error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed, e.errs.Error())
}

// Unwrap returns the individual violations.
func (e *ValidationError) Unwrap() []error {
	return e.errs.WrappedErrors()
}

func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrValidationFailed:
		return true
	case ErrInvalidSize:
		return e.Violations.Has(InvariantSizeAvailable) || e.Violations.Has(InvariantSizePositive)
	case ErrCapacityExceeded:
		return e.Violations.Has(InvariantCapacity)
	}
	return false
}
