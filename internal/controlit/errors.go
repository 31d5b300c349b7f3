package controlit

import "fmt"

// TransportError reports a failed HTTP exchange: a network error
// (StatusCode 0) or a non-2xx response.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("transport error: status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedError reports an application-level rejection: the service
// answered 2xx but flagged Success=false.
type RejectedError struct {
	Message   string
	ErrorCode int
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rejected by service (code %d)", e.ErrorCode)
	}
	return fmt.Sprintf("rejected by service: %s (code %d)", e.Message, e.ErrorCode)
}
