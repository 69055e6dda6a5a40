package services

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField  = errors.New("missing required field")
	ErrUnknownDevice = errors.New("device not registered")
)

// SoftError is a handler failure that is reported to ServerLogs and answered with an empty
// object instead of an error status.
type SoftError struct {
	Source   string
	DeviceID string
	Err      error
}

func (e SoftError) Error() string {
	if e.Err == nil {
		return e.Source
	}
	return e.Source + ": " + e.Err.Error()
}

func (e SoftError) Unwrap() error {
	return e.Err
}

// Soft tags err with the operation source. A nil err stays nil.
func Soft(source, deviceID string, err error) error {
	if err == nil {
		return nil
	}
	var existing SoftError
	if errors.As(err, &existing) {
		return existing
	}
	return SoftError{Source: source, DeviceID: deviceID, Err: err}
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
