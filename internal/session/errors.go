package session

import "errors"

// SessionError aborts a session with a human readable message. Failed
// preconditions and a declined confirmation both end up here.
type SessionError struct {
	Session string
	Message string
}

func (e *SessionError) Error() string {
	return e.Message
}

// IsSessionError reports whether err is or wraps a *SessionError.
func IsSessionError(err error) bool {
	var se *SessionError
	return errors.As(err, &se)
}
