// Package socks5 implements the wire-level SOCKS5 handshake codec.
//
// It parses the client greeting and request messages from byte slices,
// encodes server replies, and maps every failure to the reply code defined
// by RFC 1928. The package performs no I/O; callers read and write the bytes
// over whatever transport they own.
//
// Parsed values never alias the input buffer, so a caller may reuse the
// buffer as soon as a parse function returns.
package socks5
