// internal/domain/fault/fault.go
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the transport layer can map it to a
// protocol status code without inspecting message text.
type Kind int

const (
	// KindNotFound: group, user, tool, or request absent.
	KindNotFound Kind = iota + 1
	// KindConflict: duplicate name, duplicate membership/admin, duplicate
	// pending request, or re-review of a terminal request.
	KindConflict
	// KindForbidden: authorization denied.
	KindForbidden
	// KindPrecondition: business-rule precondition failed, e.g. promoting
	// a non-member or removing the last admin of a non-empty group.
	KindPrecondition
	// KindInvalid: malformed input (missing field, bad role value).
	KindInvalid
	// KindInternal: store corruption or other non-business failure.
	KindInternal
)

// Error is the typed, structured result every core operation reports
// instead of raising generic faults.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports an absent entity.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a duplicate or terminal-state violation.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Forbidden reports an authorization denial.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

// Precondition reports a failed business-rule precondition.
func Precondition(format string, args ...any) *Error {
	return &Error{Kind: KindPrecondition, Msg: fmt.Sprintf(format, args...)}
}

// Invalid reports malformed input.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalid, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps a non-business failure (store I/O, corrupt snapshot).
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf returns the Kind of err, or KindInternal when err is not a
// fault error. Unknown failures must never be presented as business
// conditions.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// Is reports whether err is a fault error of the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}
