package services

import (
	"errors"
	"fmt"

	"github.com/phillip/sports-academy-go/store"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindCapacityExceeded
	KindConflict
	KindStoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation error"
	case KindCapacityExceeded:
		return "capacity exceeded"
	case KindConflict:
		return "conflict"
	case KindStoreUnavailable:
		return "store unavailable"
	}
	return "internal error"
}

// Error carries a Kind the transport layer maps to a status code.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrValidation       = &Error{Kind: KindValidation}
	ErrCapacityExceeded = &Error{Kind: KindCapacityExceeded}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable}
)

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf reports the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func notFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func invalid(err error) error {
	return &Error{Kind: KindValidation, Message: err.Error()}
}

func invalidf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// fromStore translates a store error for the record type named by what.
func fromStore(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return notFound(what)
	case errors.Is(err, store.ErrDuplicate):
		return &Error{Kind: KindConflict, Message: what + " conflicts with an existing record", Err: err}
	case errors.Is(err, store.ErrUnavailable):
		return &Error{Kind: KindStoreUnavailable, Message: "store unavailable", Err: err}
	}
	return &Error{Kind: KindInternal, Message: what, Err: err}
}
