package domain

import (
	"fmt"
)

// RemoteRejectedError reports a webhook POST that reached Discord and was
// answered with a non-success status. Message carries the server's
// machine-readable error message when one could be extracted, Details any
// structured validation detail from the error body.
type RemoteRejectedError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *RemoteRejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("discord rejected the message (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("discord rejected the message (status %d): %s", e.StatusCode, e.Message)
}

// TransportError reports a webhook POST that never produced an HTTP
// response: DNS failure, connection refusal, timeout, or TLS trouble.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("webhook transport failure: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
