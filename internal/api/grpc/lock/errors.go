package lock

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/orientation-lock/internal/domain/lock"
)

// ToStatus converts a controller error into a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code

	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		code = codes.PermissionDenied
	case errors.Is(err, domain.ErrOrientationLockUnsupported):
		code = codes.Unimplemented
	case errors.Is(err, domain.ErrOrientationLockRejected):
		code = codes.FailedPrecondition
	case errors.Is(err, domain.ErrBusy):
		code = codes.Aborted
	case errors.Is(err, domain.ErrUnlockFailed):
		code = codes.Internal
	default:
		code = codes.Unknown
	}

	return status.Error(code, err.Error())
}

// FromStatus restores the domain error behind a gRPC status error so that
// callers can match it with errors.Is. Errors without a known mapping are
// returned unchanged.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || st.Code() == codes.OK {
		return err
	}

	var sentinel error

	switch st.Code() {
	case codes.PermissionDenied:
		sentinel = domain.ErrPermissionDenied
	case codes.Unimplemented:
		if strings.HasPrefix(st.Message(), domain.ErrOrientationLockUnsupported.Error()) {
			sentinel = domain.ErrOrientationLockUnsupported
		}
	case codes.FailedPrecondition:
		sentinel = domain.ErrOrientationLockRejected
	case codes.Aborted:
		sentinel = domain.ErrBusy
	case codes.Internal:
		if strings.HasPrefix(st.Message(), domain.ErrUnlockFailed.Error()) {
			sentinel = domain.ErrUnlockFailed
		}
	default:
	}

	if sentinel == nil {
		return err
	}

	return fmt.Errorf("%w (%s)", sentinel, st.Message())
}
