package socks5

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates every failure the handshake can produce.
type ErrorKind int

const (
	KindGeneralFailure ErrorKind = iota
	KindNotAllowed
	KindNetworkUnreachable
	KindHostUnreachable
	KindConnectionRefused
	KindTTLExpired
	KindCommandNotSupported
	KindAddrTypeNotSupported

	// Parser-local kinds. They never reach the wire under their own code.
	KindShortBuffer
	KindZeroAuthMethods

	// KindIO wraps a transport error, classified when it is rendered.
	KindIO

	kindCount
)

// replyCodes must have a non-zero entry for every kind; an entry left out is
// 0x00 (success) and is caught by TestReplyCodesTotal.
var replyCodes = [kindCount]byte{
	KindGeneralFailure:       RepServerFailure,
	KindNotAllowed:           RepNotAllowed,
	KindNetworkUnreachable:   RepNetworkUnreachable,
	KindHostUnreachable:      RepHostUnreachable,
	KindConnectionRefused:    RepConnectionRefused,
	KindTTLExpired:           RepTTLExpired,
	KindCommandNotSupported:  RepCommandNotSupported,
	KindAddrTypeNotSupported: RepAddrTypeNotSupported,
	KindShortBuffer:          RepServerFailure,
	KindZeroAuthMethods:      RepServerFailure,
	KindIO:                   RepServerFailure,
}

var kindNames = [kindCount]string{
	KindGeneralFailure:       "general server failure",
	KindNotAllowed:           "connection not allowed by ruleset",
	KindNetworkUnreachable:   "network unreachable",
	KindHostUnreachable:      "host unreachable",
	KindConnectionRefused:    "connection refused",
	KindTTLExpired:           "TTL expired",
	KindCommandNotSupported:  "command not supported",
	KindAddrTypeNotSupported: "address type not supported",
	KindShortBuffer:          "buffer is too short",
	KindZeroAuthMethods:      "no auth methods offered",
	KindIO:                   "i/o error",
}

func (k ErrorKind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Reply returns the reply code for k without inspecting any wrapped error.
func (k ErrorKind) Reply() byte {
	if k < 0 || k >= kindCount {
		return RepServerFailure
	}
	return replyCodes[k]
}

// Error is the single error type returned by this package.
type Error struct {
	Kind ErrorKind
	// Err is the transport error for KindIO, and optional context otherwise.
	Err error
}

var (
	ErrGeneralFailure          = &Error{Kind: KindGeneralFailure}
	ErrNotAllowed              = &Error{Kind: KindNotAllowed}
	ErrNetworkUnreachable      = &Error{Kind: KindNetworkUnreachable}
	ErrHostUnreachable         = &Error{Kind: KindHostUnreachable}
	ErrConnectionRefused       = &Error{Kind: KindConnectionRefused}
	ErrTTLExpired              = &Error{Kind: KindTTLExpired}
	ErrCommandNotSupported     = &Error{Kind: KindCommandNotSupported}
	ErrAddressTypeNotSupported = &Error{Kind: KindAddrTypeNotSupported}
	ErrShortBuffer             = &Error{Kind: KindShortBuffer}
	ErrZeroAuthMethods         = &Error{Kind: KindZeroAuthMethods}
)

// IOError wraps a transport error so it renders through the I/O classifier.
func IOError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, Err: err}
}

// Wrap attaches err as the cause of a protocol failure of the given kind.
func Wrap(kind ErrorKind, err error) error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("socks5: %s: %v", e.Kind, e.Err)
	}
	return "socks5: " + e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the package
// sentinels match any error carrying their kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Reply renders e as a reply code.
func (e *Error) Reply() byte {
	if e.Kind == KindIO {
		return ioReply(e.Err)
	}
	return e.Kind.Reply()
}

// ReplyCode maps err to the REP byte of a reply. A nil error is success.
// Errors that are not an *Error are treated as transport errors.
func ReplyCode(err error) byte {
	if err == nil {
		return RepSuccess
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Reply()
	}
	return ioReply(err)
}

func ioReply(err error) byte {
	if isNetworkUnreachable(err) {
		return RepNetworkUnreachable
	}
	return RepServerFailure
}
