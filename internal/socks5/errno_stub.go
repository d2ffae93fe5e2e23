//go:build !unix && !windows

package socks5

func isNetworkUnreachable(_ error) bool {
	return false
}
