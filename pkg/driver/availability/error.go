// Package availability defines the error classes adapters map their
// vendor SDK status codes onto, so callers can tell a busy device from a
// missing one without knowing the SDK.
package availability

import (
	"errors"
)

var (
	ErrUnimplemented = NewError("not implemented")
	ErrBusy          = NewError("device or resource busy")
	ErrNoDevice      = NewError("no such device")
	ErrUnsupported   = NewError("operation not supported by device")
)

type errorString struct {
	s string
}

func NewError(text string) error {
	return &errorString{text}
}

func IsError(err error) bool {
	var target *errorString
	return errors.As(err, &target)
}

func (e *errorString) Error() string {
	return e.s
}
