// Package errors provides error handling for the astrodynamics platform.
//
// It re-exports github.com/cockroachdb/errors (stack traces, wrapping,
// sentinel matching) and defines the sentinel taxonomy shared by the frame
// and EOP packages. Callers test categories with errors.Is or the Is*
// helpers; internal consistency violations use AssertionFailedf so they are
// distinguishable from data problems.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core creation and wrapping.
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf

	// CombineErrors keeps the first error as the main cause and records the
	// second as a secondary error, handy for accumulating loader failures.
	CombineErrors = crdb.CombineErrors
	Join          = crdb.Join
)

// Inspection.
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions. Internal invariant failures (broken frame tree, impossible
// recipe branches) are assertion errors, never data errors.
var (
	AssertionFailedf                 = crdb.AssertionFailedf
	NewAssertionErrorWithWrappedErrf = crdb.NewAssertionErrorWithWrappedErrf
	HasAssertionFailure              = crdb.HasAssertionFailure
)

// Sentinels. Wrap them with errors.Wrap to add context while keeping the
// category matchable with errors.Is.
var (
	// ErrDataUnavailable indicates required Earth orientation data could
	// not be obtained: no loaders registered, loaders found nothing, or a
	// loader failed while reading.
	ErrDataUnavailable = New("no Earth orientation data available")

	// ErrContinuity indicates a loaded EOP series holds consecutive entries
	// further apart than the configured maximum gap.
	ErrContinuity = New("EOP continuity violation")

	// ErrUnknownFrame indicates a frame key that names no buildable frame.
	ErrUnknownFrame = New("unknown frame")

	// ErrOutsideValidity indicates an evaluation date outside a provider's
	// validity span.
	ErrOutsideValidity = New("date outside validity span")

	// ErrNotFound indicates the requested stored resource does not exist.
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates a malformed request.
	ErrInvalidRequest = New("invalid request")
)

// IsDataUnavailable reports whether err is or wraps ErrDataUnavailable.
func IsDataUnavailable(err error) bool {
	return err != nil && Is(err, ErrDataUnavailable)
}

// IsContinuityViolation reports whether err is or wraps ErrContinuity.
func IsContinuityViolation(err error) bool {
	return err != nil && Is(err, ErrContinuity)
}

// IsUnknownFrame reports whether err is or wraps ErrUnknownFrame.
func IsUnknownFrame(err error) bool {
	return err != nil && Is(err, ErrUnknownFrame)
}

// IsOutsideValidity reports whether err is or wraps ErrOutsideValidity.
func IsOutsideValidity(err error) bool {
	return err != nil && Is(err, ErrOutsideValidity)
}

// IsNotFoundError reports whether err is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError reports whether err is or wraps ErrInvalidRequest.
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewNotFoundError creates a not-found error with a formatted message.
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message.
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
