// Package rpcerr defines the error taxonomy shared by the master, service
// and topic layers. Each kind is a distinct sentinel so callers can branch
// on errors.Is instead of parsing strings.
package rpcerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one of the error categories of the design doc.
type Kind int

const (
	// Transport covers connect timeout, read timeout, peer closed, write
	// failed, and the concurrent-read defect.
	Transport Kind = iota
	// ProtocolFraming covers short buffers, malformed handshakes, bad
	// XML-RPC responses and master faults.
	ProtocolFraming
	// ServiceLevel covers a non-zero service status byte.
	ServiceLevel
	// Resolution covers service-not-found, no-publishers, node-lookup
	// failures and non-TCPROS protocol offers.
	Resolution
	// Domain covers active-map-not-initialised, invalid room id, and
	// other application-level invariant violations.
	Domain
	// HelperBinary covers non-zero exit, timeout and spawn failure of the
	// local IPC helper.
	HelperBinary
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case ProtocolFraming:
		return "protocol-framing"
	case ServiceLevel:
		return "service-level"
	case Resolution:
		return "resolution"
	case Domain:
		return "domain"
	case HelperBinary:
		return "helper-binary"
	default:
		return "unknown"
	}
}

// Error is the concrete error type carried across the library. It wraps an
// underlying cause (if any) and tags it with a Kind so callers can recover
// the category without parsing message text.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func (e *Error) Unwrap() error { return e.cause }

// Kind reports the error category.
func (e *Error) Kind() Kind { return e.kind }

// New builds a bare Error of the given kind.
func New(kind Kind, message string) error {
	return &Error{kind: kind, message: message}
}

// Newf builds a bare Error of the given kind with formatted text.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an existing error, preserving it as
// the cause and recording a stack trace via pkg/errors.
func Wrap(kind Kind, cause error, message string) error {
	if cause == nil {
		return nil
	}
	return &Error{kind: kind, message: message, cause: errors.WithStack(cause)}
}

// Wrapf is Wrap with formatted text.
func Wrapf(kind Kind, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

// Is reports whether err (or something it wraps) has the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			if e.kind == kind {
				return true
			}
			err = errors.Unwrap(err)
			continue
		}
		err = errors.Unwrap(err)
	}
	return false
}

// ShortBuffer builds the canonical "short buffer" protocol-framing error
// for a BinaryCursor read that would overrun its slice.
func ShortBuffer(requested, offset, total int) error {
	return Newf(ProtocolFraming, "short buffer: requested %d bytes at offset %d of %d", requested, offset, total)
}
