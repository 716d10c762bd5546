package app

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrorKind classifies every failure an operation can return.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUnauthenticated
	KindNotFound
	KindForbidden
	KindInvalidRequest
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindForbidden:
		return "FORBIDDEN"
	case KindInvalidRequest:
		return "INVALID_REQUEST"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}

// Error is the only error type operations return.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "not authenticated"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "user not found in database"}
	ErrSessionNotFound    = &Error{Kind: KindNotFound, Message: "session not found"}
	ErrNotParticipant     = &Error{Kind: KindForbidden, Message: "you are not a participant in this session"}
	ErrAlreadyParticipant = &Error{Kind: KindForbidden, Message: "user is already active in session"}
	ErrNoPrimaryEmail     = &Error{Kind: KindInvalidRequest, Message: "user does not have a primary email address"}
	ErrEmptyContent       = &Error{Kind: KindInvalidRequest, Message: "content is empty"}
	ErrEmailConflict      = &Error{Kind: KindConflict, Message: "user with this email already exists"}
)

// KindOf returns the kind carried by err; unclassified errors are internal.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// finish is deferred at every operation boundary. Classified errors pass
// through; anything else is logged, with the stack recorded where it was
// raised when one is attached, and replaced by an internal error carrying msg.
func finish(log *zap.Logger, op, msg string, errp *error) {
	err := *errp
	if err == nil {
		return
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return
	}
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	var traced stackTracer
	if errors.As(err, &traced) {
		fields = append(fields, zap.String("trace", fmt.Sprintf("%+v", traced)))
	}
	log.Error(msg, fields...)
	*errp = &Error{Kind: KindInternal, Message: msg, Err: err}
}
