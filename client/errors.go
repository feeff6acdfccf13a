package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification with errors.Is.
var (
	// ErrAuthExpired is returned for any call the server answered with an
	// authorization failure. The pipeline has already notified the
	// registered handler by the time a caller sees this; call sites must
	// not surface it as a form-level error.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrRemoteRejected is returned when the server rejected the request
	// for a non-auth reason (insufficient stock, bad request). The server's
	// message is surfaced verbatim; never retried automatically.
	ErrRemoteRejected = errors.New("request rejected by server")

	// ErrUnavailable is returned when the request never produced a server
	// decision: network failure, timeout, or an open circuit breaker.
	ErrUnavailable = errors.New("marketplace unavailable")
)

// APIError carries structured context about a failed call. It wraps one of
// the sentinel errors above so callers classify with errors.Is and display
// Message when present.
type APIError struct {
	Op      string // operation that failed, e.g. "cart.Add"
	Status  int    // HTTP status, 0 when no response was received
	Message string // server-provided message, verbatim
	Err     error  // sentinel or underlying error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAuthExpired reports whether err represents an expired credential.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// IsUnavailable reports whether err means the request never reached a server
// decision and the outcome is unknown.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
