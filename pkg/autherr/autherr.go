// Package autherr defines the machine-readable error kinds of the identity
// provider and their user-facing messages.
package autherr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidEmail        Kind = "invalid-email"
	KindUserDisabled        Kind = "user-disabled"
	KindUserNotFound        Kind = "user-not-found"
	KindWrongPassword       Kind = "wrong-password"
	KindEmailAlreadyInUse   Kind = "email-already-in-use"
	KindWeakPassword        Kind = "weak-password"
	KindOperationNotAllowed Kind = "operation-not-allowed"
	KindTooManyRequests     Kind = "too-many-requests"
	KindRequiresRecentLogin Kind = "requires-recent-login"
	KindInvalidToken        Kind = "invalid-token"
)

// Error is an identity provider failure tagged with its kind.
type Error struct {
	Kind Kind
	Err  error
}

func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth/%s: %v", e.Kind, e.Err)
	}
	return "auth/" + string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so callers can write
// errors.Is(err, autherr.New(autherr.KindWrongPassword)).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind carried by err, or "" when err is not kinded.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
