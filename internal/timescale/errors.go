package timescale

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrUnacceptableDate    = errors.New("unacceptable date")
	ErrInvalidCalendarDate = errors.New("invalid calendar date")
	ErrFormat              = errors.New("format error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindUnacceptableDate    ErrorKind = "unacceptable_date"
	KindInvalidCalendarDate ErrorKind = "invalid_calendar_date"
	KindFormat              ErrorKind = "format"
)

// ConversionError wraps a primitive failure with the operation that hit it.
type ConversionError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *ConversionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

// Unwrap exposes both the kind sentinel and the underlying cause, so
// errors.Is matches either.
func (e *ConversionError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnacceptableDate:
		return ErrUnacceptableDate
	case KindFormat:
		return ErrFormat
	default:
		return ErrInvalidCalendarDate
	}
}

// IsKind reports whether err is a ConversionError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

func opError(op string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &ConversionError{Op: op, Kind: kind, Err: err}
}
