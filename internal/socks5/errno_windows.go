//go:build windows

package socks5

import (
	"errors"

	"golang.org/x/sys/windows"
)

func isNetworkUnreachable(err error) bool {
	return errors.Is(err, windows.WSAENETUNREACH)
}
