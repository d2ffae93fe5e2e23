package socks5

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestReplyCodesTotal(t *testing.T) {
	for k := ErrorKind(0); k < kindCount; k++ {
		if replyCodes[k] == RepSuccess {
			t.Errorf("kind %d (%v) has no reply code", int(k), k)
		}
		if kindNames[k] == "" {
			t.Errorf("kind %d has no name", int(k))
		}
	}
}

func TestErrorKindReply(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want byte
	}{
		{KindGeneralFailure, 0x01},
		{KindNotAllowed, 0x02},
		{KindNetworkUnreachable, 0x03},
		{KindHostUnreachable, 0x04},
		{KindConnectionRefused, 0x05},
		{KindTTLExpired, 0x06},
		{KindCommandNotSupported, 0x07},
		{KindAddrTypeNotSupported, 0x08},
		{KindShortBuffer, 0x01},
		{KindZeroAuthMethods, 0x01},
		{KindIO, 0x01},
		{kindCount, 0x01},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Reply(); got != tt.want {
				t.Fatalf("expected %#x got %#x", tt.want, got)
			}
			if got := ReplyCode(&Error{Kind: tt.kind}); got != tt.want {
				t.Fatalf("expected %#x got %#x", tt.want, got)
			}
		})
	}
}

func TestReplyCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want byte
	}{
		{name: "nil", err: nil, want: RepSuccess},
		{name: "wrapped_sentinel", err: fmt.Errorf("request: %w", ErrCommandNotSupported), want: RepCommandNotSupported},
		{name: "plain_io", err: io.ErrUnexpectedEOF, want: RepServerFailure},
		{name: "io_kind", err: IOError(io.EOF), want: RepServerFailure},
		{name: "wrap_host", err: Wrap(KindHostUnreachable, errors.New("no such host")), want: RepHostUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplyCode(tt.err); got != tt.want {
				t.Fatalf("expected %#x got %#x", tt.want, got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("parse: %w", Wrap(KindShortBuffer, io.ErrUnexpectedEOF))
	if !errors.Is(err, ErrShortBuffer) {
		t.Fatal("expected short buffer")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatal("expected cause to unwrap")
	}
	if errors.Is(err, ErrZeroAuthMethods) {
		t.Fatal("kinds must not cross-match")
	}
	if IOError(nil) != nil {
		t.Fatal("IOError(nil) must be nil")
	}
}
