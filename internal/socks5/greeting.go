package socks5

import "bytes"

// ParseGreeting parses the client's method offer:
//
//	+-----+----------+----------+
//	| VER | NMETHODS | METHODS  |
//	+-----+----------+----------+
//	|  1  |    1     | 1 to 255 |
//	+-----+----------+----------+
//
// The version byte is returned as is; bytes past the offered methods are
// ignored.
func ParseGreeting(buf []byte) (byte, []byte, error) {
	if len(buf) < 3 {
		return 0, nil, ErrShortBuffer
	}

	ver := buf[0]
	n := int(buf[1])
	if n == 0 {
		return 0, nil, ErrZeroAuthMethods
	}
	if len(buf) < 2+n {
		return 0, nil, ErrShortBuffer
	}

	methods := make([]byte, n)
	copy(methods, buf[2:2+n])

	return ver, methods, nil
}

// SelectMethod picks the method the server answers with. Only NoAuth is
// supported; MethodNoAcceptable is returned when it was not offered.
func SelectMethod(offered []byte) byte {
	if bytes.IndexByte(offered, MethodNoAuth) >= 0 {
		return MethodNoAuth
	}
	return MethodNoAcceptable
}

// EncodeMethodSelection returns the server's two-byte method selection
// message.
func EncodeMethodSelection(method byte) []byte {
	return []byte{Version, method}
}
