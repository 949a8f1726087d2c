package mute

import (
	"errors"
	"strings"
)

var (
	// ErrPermissionDenied indicates the platform refused the action for lack of rights.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrTransport indicates a network or platform availability failure.
	ErrTransport = errors.New("transport error")
	// ErrStorage indicates the mute record store failed.
	ErrStorage = errors.New("storage error")
	// ErrOther indicates an unclassified platform failure.
	ErrOther = errors.New("unclassified failure")
)

// Cause is a set of coarse failure causes.
type Cause uint8

const (
	CausePermissionDenied Cause = 1 << iota
	CauseTransport
	CauseOther
)

// CauseOf maps an error to the failure cause it belongs to.
// Storage errors count as CauseOther.
func CauseOf(err error) Cause {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrPermissionDenied):
		return CausePermissionDenied
	case errors.Is(err, ErrTransport):
		return CauseTransport
	default:
		return CauseOther
	}
}

// Has reports whether every flag in other is set.
func (c Cause) Has(other Cause) bool {
	return other != 0 && c&other == other
}

// String returns the set flags joined with "|".
func (c Cause) String() string {
	if c == 0 {
		return "none"
	}

	var parts []string
	if c.Has(CausePermissionDenied) {
		parts = append(parts, "permission_denied")
	}
	if c.Has(CauseTransport) {
		parts = append(parts, "transport_error")
	}
	if c.Has(CauseOther) {
		parts = append(parts, "other")
	}
	return strings.Join(parts, "|")
}
