package netcast

import "fmt"

// AccessTokenError reports that a session could not be opened because the
// access token was missing or rejected by the TV. The caller should prompt
// the user for the PIN shown on the TV screen and retry.
type AccessTokenError struct {
	Reason string
}

// Error implements the error interface
func (e *AccessTokenError) Error() string {
	return fmt.Sprintf("access token error: %s", e.Reason)
}

// SessionError reports any other session negotiation failure: the TV was
// unreachable, timed out, or answered with something unusable.
type SessionError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session error: %s (caused by: %v)", e.Reason, e.Err)
	}
	return fmt.Sprintf("session error: %s", e.Reason)
}

// Unwrap returns the underlying error for error chain inspection
func (e *SessionError) Unwrap() error {
	return e.Err
}
