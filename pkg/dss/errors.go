package dss

import "fmt"

// Kind is the error taxonomy every DSS component returns. Callers should
// switch on Kind rather than on error string contents.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAlreadyExists
	KindConflict
	KindInvalid
	KindPermissionDenied
	KindNotLocked
	KindNoDevice
	KindOperationNotPermitted
	KindUnsupported
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotLocked:
		return "not_locked"
	case KindNoDevice:
		return "no_device"
	case KindOperationNotPermitted:
		return "operation_not_permitted"
	case KindUnsupported:
		return "unsupported"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by every pkg/dss component. Entity and
// Identity are optional context describing what the error happened to.
type Error struct {
	Kind     Kind
	Message  string
	Entity   EntityKind
	Identity string
	Err      error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Identity != "" {
		return fmt.Sprintf("%s: %s %s: %s", e.Kind, e.Entity, e.Identity, e.Message)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Entity, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether err carries the given Kind, unwrapping through
// wrapped causes.
func Is(err error, kind Kind) bool {
	var derr *Error
	for err != nil {
		if e, ok := err.(*Error); ok {
			derr = e
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return derr != nil && derr.Kind == kind
}

// KindOf extracts the Kind from err, or KindUnknown if err is not a *Error.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

func newErr(kind Kind, entity EntityKind, identity, msg string) *Error {
	return &Error{Kind: kind, Entity: entity, Identity: identity, Message: msg}
}

// NewNotFound builds a KindNotFound error for the given entity/identity.
func NewNotFound(entity EntityKind, identity string) *Error {
	return newErr(KindNotFound, entity, identity, "not found")
}

// NewAlreadyExists builds a KindAlreadyExists error.
func NewAlreadyExists(entity EntityKind, identity string) *Error {
	return newErr(KindAlreadyExists, entity, identity, "already exists")
}

// NewConflict builds a KindConflict error, e.g. a concurrent-update
// conflict (serialization failure or deadlock) reported by the catalog.
func NewConflict(entity EntityKind, identity, msg string) *Error {
	return newErr(KindConflict, entity, identity, msg)
}

// NewInvalid builds a KindInvalid error describing a malformed request.
func NewInvalid(msg string) *Error {
	return newErr(KindInvalid, "", "", msg)
}

// NewInvalidf builds a KindInvalid error with a formatted message.
func NewInvalidf(format string, args ...any) *Error {
	return newErr(KindInvalid, "", "", fmt.Sprintf(format, args...))
}

// NewPermissionDenied builds a KindPermissionDenied error, e.g. an
// admin-locked medium.
func NewPermissionDenied(entity EntityKind, identity, msg string) *Error {
	return newErr(KindPermissionDenied, entity, identity, msg)
}

// NewNotLocked builds a KindNotLocked error for a refresh/release/status
// call against an entity the caller does not hold a lock on.
func NewNotLocked(entity EntityKind, identity string) *Error {
	return newErr(KindNotLocked, entity, identity, "not locked")
}

// NewNoDevice builds a KindNoDevice error, returned by the locator for an
// unlocked directory-family medium with no owning host.
func NewNoDevice(entity EntityKind, identity string) *Error {
	return newErr(KindNoDevice, entity, identity, "no device currently serves this medium")
}

// NewOperationNotPermitted builds a KindOperationNotPermitted error, e.g.
// locate against a get-disabled medium.
func NewOperationNotPermitted(entity EntityKind, identity, msg string) *Error {
	return newErr(KindOperationNotPermitted, entity, identity, msg)
}

// NewUnsupported builds a KindUnsupported error for a recognized but
// unimplemented request shape.
func NewUnsupported(msg string) *Error {
	return newErr(KindUnsupported, "", "", msg)
}

// NewTransport wraps a lower-level transport/connection error (e.g. a
// Postgres connection failure) as KindTransport.
func NewTransport(cause error) *Error {
	e := newErr(KindTransport, "", "", "transport error")
	e.Err = cause
	return e
}

// Wrap attaches cause to err as its wrapped cause and returns err.
func Wrap(err *Error, cause error) *Error {
	err.Err = cause
	return err
}
