package platform

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/disgoorg/disgo/rest"
	"github.com/robalyx/frost/internal/mute"
)

// ErrMuteRoleNotConfigured indicates the guild has no mute role set.
var ErrMuteRoleNotConfigured = errors.New("mute role not configured")

// classifyError wraps a REST error with the mute failure cause it belongs to.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	if status, ok := restStatus(err); ok {
		switch {
		case status == http.StatusForbidden || status == http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", mute.ErrPermissionDenied, err)
		case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", mute.ErrTransport, err)
		default:
			return fmt.Errorf("%w: %w", mute.ErrOther, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", mute.ErrTransport, err)
	}

	return fmt.Errorf("%w: %w", mute.ErrOther, err)
}

// isNotFound reports whether the REST call failed because the member or role is gone.
func isNotFound(err error) bool {
	status, ok := restStatus(err)
	return ok && status == http.StatusNotFound
}

// restStatus returns the HTTP status of a REST error. The client returns rest.Error
// by value; pointers are accepted as well.
func restStatus(err error) (int, bool) {
	var resp *http.Response

	var restErr rest.Error
	var restErrPtr *rest.Error
	switch {
	case errors.As(err, &restErr):
		resp = restErr.Response
	case errors.As(err, &restErrPtr) && restErrPtr != nil:
		resp = restErrPtr.Response
	}

	if resp == nil {
		return 0, false
	}
	return resp.StatusCode, true
}

// isTransport is the retry predicate for REST calls.
func isTransport(err error) bool {
	return errors.Is(err, mute.ErrTransport)
}
