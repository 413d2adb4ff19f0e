package remote

import (
	"errors"
	"fmt"
)

// ErrRequestFailed covers transport failures, timeouts, non-2xx statuses and
// unreadable success bodies alike.
var ErrRequestFailed = errors.New("request failed")

// RequestError describes one failed call.
type RequestError struct {
	Op        string // list, create, update, delete
	ID        int    // 0 when the call is not about one record
	Status    int    // 0 when no response arrived
	RequestID string
	Err       error
}

func (e *RequestError) Error() string {
	target := e.Op
	if e.ID != 0 {
		target = fmt.Sprintf("%s record %d", e.Op, e.ID)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", target, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", target, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }
