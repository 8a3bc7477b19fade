package tracker

import (
	"errors"
	"fmt"
)

// Kind classifies a tracker failure.
type Kind string

const (
	// KindNotFound means the tracker reported the issue does not exist.
	KindNotFound Kind = "not_found"
	// KindUnauthorized means the tracker refused the credentials.
	KindUnauthorized Kind = "unauthorized"
	// KindTransport means no HTTP response was received at all.
	KindTransport Kind = "transport"
	// KindRejected covers every other tracker rejection.
	KindRejected Kind = "rejected"
)

// Failure is a classified tracker failure. Callers can use errors.As to
// extract the classification:
//
//	var failure *tracker.Failure
//	if errors.As(err, &failure) {
//	    if failure.Kind == tracker.KindNotFound { ... }
//	}
type Failure struct {
	// Kind is the failure classification.
	Kind Kind
	// StatusCode is the HTTP status of the tracker response, zero when
	// no response was received.
	StatusCode int
	// Reason is the underlying description from the tracker or transport.
	Reason string
}

func (f *Failure) Error() string {
	if f.StatusCode == 0 {
		return fmt.Sprintf("tracker: %s: %s", f.Kind, f.Reason)
	}
	return fmt.Sprintf("tracker: %s (%d): %s", f.Kind, f.StatusCode, f.Reason)
}

// IsKind checks whether err carries a *Failure with the given kind.
func IsKind(err error, kind Kind) bool {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Kind == kind
	}
	return false
}
