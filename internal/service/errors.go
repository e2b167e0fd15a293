package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/roomdraw/internal/housing"
	"github.com/mmynk/roomdraw/internal/storage"
)

// connectError maps a housing or storage error to the Connect code clients see.
func connectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	return connect.NewError(codeOf(err), err)
}

func codeOf(err error) connect.Code {
	switch {
	case errors.Is(err, housing.ErrNotAuthorized):
		return connect.CodePermissionDenied
	case errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, storage.ErrConflict):
		return connect.CodeAborted
	case errors.Is(err, housing.ErrCapacityExceeded):
		return connect.CodeResourceExhausted
	case errors.Is(err, housing.ErrDuplicateMembership),
		errors.Is(err, housing.ErrAlreadyAssigned),
		errors.Is(err, housing.ErrAlreadyActive):
		return connect.CodeAlreadyExists
	case errors.Is(err, housing.ErrValidationFailed),
		errors.Is(err, housing.ErrInvalidSize),
		errors.Is(err, housing.ErrNotEligible):
		return connect.CodeInvalidArgument
	case errors.Is(err, housing.ErrNotLockable),
		errors.Is(err, housing.ErrInvalidTransition),
		errors.Is(err, housing.ErrNotLotteryReady),
		errors.Is(err, housing.ErrNoSuiteAvailable):
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeInternal
	}
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
