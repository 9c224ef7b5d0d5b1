package stream

import (
	"errors"
	"fmt"
)

// ErrNoResult indicates the server closed the stream without emitting a
// terminal done/error record. It is distinct from transport failures: the
// HTTP exchange succeeded but the protocol contract was violated.
var ErrNoResult = errors.New("no result received")

// StatusError is returned when the generation endpoint answers with a non-OK
// HTTP status before any streaming begins.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}
