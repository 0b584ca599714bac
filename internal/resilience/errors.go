package resilience

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// TransientError marks a failure as transient so the circuit breaker counts
// it toward opening. Provider clients wrap rate-limit and server-side
// failures in it; everything else trips nothing.
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient (status %d): %s", e.StatusCode, e.Err)
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

// NewTransientError wraps err as transient. statusCode is 0 for non-HTTP
// failures.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// transientStatuses are the HTTP statuses both model providers document as
// retry-later: request timeout, rate limit, and the 5xx family (Anthropic's
// overloaded_error surfaces as 529).
var transientStatuses = []int{408, 429, 500, 502, 503, 504, 529}

// transientFragments match wrapped transport errors and provider error
// payloads whose type information did not survive into the chain.
var transientFragments = []string{
	"connection reset by peer",
	"broken pipe",
	"temporary failure in name resolution",
	"no such host",
	"tls handshake timeout",
	"i/o timeout",
	"server closed idle connection",
	"transport connection broken",
	"overloaded_error",
	"rate_limit_error",
	"rate limit",
}

// IsTransient reports whether an error chain indicates a failure worth
// counting toward the provider's circuit breaker: an explicit TransientError,
// a network timeout or connection-level syscall error, a transient HTTP
// status mentioned in a provider error message, or a known transport/provider
// error fragment.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, code := range transientStatuses {
		// Both provider clients report HTTP failures as "<pkg>: status NNN".
		if strings.Contains(msg, fmt.Sprintf("status %d", code)) {
			return true
		}
	}
	for _, f := range transientFragments {
		if strings.Contains(msg, f) {
			return true
		}
	}

	return false
}

// IsTransientHTTPStatus reports whether the status code alone marks a call
// transient, for clients that still have the response in hand.
func IsTransientHTTPStatus(statusCode int) bool {
	for _, code := range transientStatuses {
		if statusCode == code {
			return true
		}
	}
	return false
}
