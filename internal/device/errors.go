package device

import (
	"errors"
	"fmt"
)

// Kind classifies a failed device call.
type Kind int

const (
	// KindUnreachable covers transport failures and timeouts.
	KindUnreachable Kind = iota + 1
	// KindRejected covers non-success responses and undecodable bodies.
	KindRejected
)

// Sentinels for errors.Is matching against *Error.
var (
	ErrUnreachable = errors.New("device unreachable")
	ErrRejected    = errors.New("device rejected request")
)

// Error is the uniform failure returned by every Client call.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRejected:
		if e.Err != nil {
			return fmt.Sprintf("%s: device rejected request (status %d): %v", e.Op, e.Status, e.Err)
		}
		return fmt.Sprintf("%s: device rejected request (status %d)", e.Op, e.Status)
	default:
		return fmt.Sprintf("%s: device unreachable: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUnreachable) and errors.Is(err, ErrRejected) work.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnreachable:
		return e.Kind == KindUnreachable
	case ErrRejected:
		return e.Kind == KindRejected
	}
	return false
}

// StatusOf returns the HTTP status carried by a rejected call, or 0.
func StatusOf(err error) int {
	var de *Error
	if errors.As(err, &de) {
		return de.Status
	}
	return 0
}

func unreachable(op string, err error) error {
	return &Error{Kind: KindUnreachable, Op: op, Err: err}
}

func rejected(op string, status int, err error) error {
	return &Error{Kind: KindRejected, Op: op, Status: status, Err: err}
}
