//go:build unix

package socks5

import (
	"net"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func TestReplyCodeNetworkUnreachable(t *testing.T) {
	dialErr := &net.OpError{
		Op:  "dial",
		Net: "tcp",
		Err: os.NewSyscallError("connect", unix.ENETUNREACH),
	}

	if got := ReplyCode(dialErr); got != RepNetworkUnreachable {
		t.Fatalf("expected %#x got %#x", RepNetworkUnreachable, got)
	}
	if got := ReplyCode(IOError(dialErr)); got != RepNetworkUnreachable {
		t.Fatalf("expected %#x got %#x", RepNetworkUnreachable, got)
	}

	refused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", unix.ECONNREFUSED)}
	if got := ReplyCode(refused); got != RepServerFailure {
		t.Fatalf("expected %#x got %#x", RepServerFailure, got)
	}
}
