// Package errors provides error handling for dismantle.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints attached to diagnostics
//
// Usage:
//
//	if err := parse(); err != nil {
//	    return errors.Wrap(err, "failed to parse declaration")
//	}
//
//	if errors.Is(err, errors.ErrMalformedDeclaration) {
//	    // report at the offending token
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
	Join         = crdb.Join
)

// User-facing messages and details
var (
	WithHint       = crdb.WithHint
	WithHintf      = crdb.WithHintf
	WithDetail     = crdb.WithDetail
	WithDetailf    = crdb.WithDetailf
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Diagnostic categories. Every failure of a transformation is one of these;
// there is no recoverable class.
var (
	// ErrMalformedDeclaration indicates the input does not match the struct
	// declaration grammar, or produces names that clash with generated items.
	ErrMalformedDeclaration = New("malformed declaration")

	// ErrUnformattableSource indicates the formatter could not normalize the
	// raw declaration text for embedding in documentation.
	ErrUnformattableSource = New("could not format source for documentation")
)

// IsMalformed checks if an error is or wraps ErrMalformedDeclaration
func IsMalformed(err error) bool {
	return err != nil && Is(err, ErrMalformedDeclaration)
}

// IsUnformattable checks if an error is or wraps ErrUnformattableSource
func IsUnformattable(err error) bool {
	return err != nil && Is(err, ErrUnformattableSource)
}

// WrapUnformattable marks a formatter failure as ErrUnformattableSource
func WrapUnformattable(err error) error {
	return Mark(Wrap(err, ErrUnformattableSource.Error()), ErrUnformattableSource)
}
