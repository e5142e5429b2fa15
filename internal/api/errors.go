package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// AuthError means the credential bundle or bearer token was rejected.
// It is fatal for the whole run.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("authentication failed: %v", e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// QuotaError covers quota and permission rejections. Terminal for the
// affected file, but other files may still succeed.
type QuotaError struct {
	StatusCode int
	Message    string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota or permission denied (status %d): %s", e.StatusCode, e.Message)
}

// TransientError covers timeouts, connection failures and 5xx responses.
// Callers retry these with backoff.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// ProtocolError means the server answered with an unexpected shape.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("protocol error in %s: %v", e.Op, e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// ErrSessionExpired is returned when the server no longer recognizes an
// upload session handle. The caller must open a fresh session.
var ErrSessionExpired = errors.New("upload session expired")

// IsTransient reports whether err should be retried with backoff.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsAuth reports whether err is fatal for the run.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsProtocol reports whether err is a bounded-retry protocol error.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// statusError maps a non-2xx HTTP status onto the error taxonomy.
func statusError(code int, body string) error {
	switch {
	case code == http.StatusUnauthorized:
		return &AuthError{Err: fmt.Errorf("status %d: %s", code, body)}
	case code == http.StatusForbidden || code == http.StatusTooManyRequests ||
		code == http.StatusInsufficientStorage:
		return &QuotaError{StatusCode: code, Message: body}
	case code >= 500:
		return &TransientError{Err: fmt.Errorf("status %d: %s", code, body)}
	default:
		return &ProtocolError{Op: "request", Err: fmt.Errorf("unexpected status %d: %s", code, body)}
	}
}

// wrapTransportErr classifies resty/net transport failures. Timeouts and
// connection resets are transient; anything else is surfaced as-is.
func wrapTransportErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &nerr) {
		return &TransientError{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &TransientError{Err: err}
	}
	return &TransientError{Err: err}
}
