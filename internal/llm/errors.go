package llm

import "fmt"

// TransportError reports a failed call to the chat completion service,
// either when the request is issued or while a stream is being read.
type TransportError struct {
	Op         string // "chat", "stream" or "recv"
	StatusCode int    // HTTP status when the service answered, 0 otherwise
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
