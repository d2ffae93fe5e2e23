//go:build unix

package socks5

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isNetworkUnreachable(err error) bool {
	return errors.Is(err, unix.ENETUNREACH)
}
