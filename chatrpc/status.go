package chatrpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/parley-chat/parley/common"
)

// StatusFromError maps the common error taxonomy onto transport status
// codes. The mapping is pure; handlers call it at their return points.
// Status errors pass through untouched, anything unrecognized becomes
// Internal.
func StatusFromError(err error) error {
	if err == nil {
		return nil
	}
	if errorIsStatus(err) {
		return err
	}
	return status.Error(codeFor(err), err.Error())
}

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, common.ErrAuthMissing), errors.Is(err, common.ErrAuthInvalid):
		return codes.Unauthenticated
	case errors.Is(err, common.ErrPermissionDenied):
		return codes.PermissionDenied
	case errors.Is(err, common.ErrUserNotFound), errors.Is(err, common.ErrChannelNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrUserAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrWorkerNotAvailable):
		return codes.Unavailable
	case errors.Is(err, common.ErrInvalidPassword), errors.Is(err, common.ErrValidate):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrUserAlreadyInChannel), errors.Is(err, common.ErrChannelFull):
		return codes.FailedPrecondition
	case errors.Is(err, common.ErrRateLimited):
		return codes.ResourceExhausted
	case errors.Is(err, common.ErrBroadcastStopped):
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// status.FromError treats plain errors as codes.Unknown; only genuine status
// errors should bypass the taxonomy mapping
func errorIsStatus(err error) bool {
	type grpcStatus interface{ GRPCStatus() *status.Status }
	var gs grpcStatus
	return errors.As(err, &gs)
}
