package dialer_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/die-net/socksd/internal/dialer"
	"github.com/die-net/socksd/internal/proxy"
	"github.com/die-net/socksd/internal/testutil"
)

// startUpstream runs one of our own SOCKS5 servers as the upstream proxy.
func startUpstream(t *testing.T, ctx context.Context) net.Listener {
	t.Helper()

	ln, err := proxy.ListenTCP("tcp", "127.0.0.1:0", net.KeepAliveConfig{}, false)
	if err != nil {
		t.Fatal(err)
	}
	dcfg := dialer.Config{DialTimeout: 2 * time.Second}
	srv := proxy.NewSOCKS5Server(ctx, proxy.Config{
		NegotiationTimeout: 2 * time.Second,
		Dialer:             dialer.NewDirectDialer(dcfg),
		Resolver:           dialer.NewResolver(dcfg),
	})
	go func() { _ = srv.Serve(ln) }()
	return ln
}

func TestSOCKS5ProxyDialerDialSuccess(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	echoLn := testutil.StartEchoTCPServer(t, ctx)
	defer echoLn.Close()

	upLn := startUpstream(t, ctx)
	defer upLn.Close()

	f := dialer.NewSOCKS5ProxyDialer(dialer.Config{DialTimeout: 2 * time.Second}, upLn.Addr().String(), "", "")

	conn, err := f.DialContext(ctx, "tcp", echoLn.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	testutil.AssertEcho(t, conn, conn, []byte("hello"))
}

func TestSOCKS5ProxyDialerOutlivesDialTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	echoLn := testutil.StartEchoTCPServer(t, ctx)
	defer echoLn.Close()

	upLn := startUpstream(t, ctx)
	defer upLn.Close()

	f := dialer.NewSOCKS5ProxyDialer(dialer.Config{DialTimeout: time.Second}, upLn.Addr().String(), "", "")

	conn, err := f.DialContext(ctx, "tcp", echoLn.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if _, ok := conn.(interface{ CloseWrite() error }); !ok {
		t.Fatalf("expected a half-closable conn got %T", conn)
	}

	// Stay idle past the negotiation deadline before using the tunnel.
	time.Sleep(1500 * time.Millisecond)

	testutil.AssertEcho(t, conn, conn, []byte("hello"))
}

func TestSOCKS5ProxyDialerDialFail(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	upLn := startUpstream(t, ctx)
	defer upLn.Close()

	f := dialer.NewSOCKS5ProxyDialer(dialer.Config{DialTimeout: 2 * time.Second}, upLn.Addr().String(), "", "")

	// Nothing listens on port 1, so the upstream answers with a failure reply.
	if _, err := f.DialContext(ctx, "tcp", "127.0.0.1:1"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSOCKS5ProxyDialerDialContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := dialer.NewSOCKS5ProxyDialer(dialer.Config{DialTimeout: 2 * time.Second}, "127.0.0.1:1", "", "")

	if _, err := f.DialContext(ctx, "tcp", "127.0.0.1:1"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSOCKS5ProxyDialerUnsupportedNetwork(t *testing.T) {
	f := dialer.NewSOCKS5ProxyDialer(dialer.Config{}, "127.0.0.1:1", "", "")

	if _, err := f.DialContext(context.Background(), "udp", "127.0.0.1:53"); err == nil {
		t.Fatalf("expected error")
	}
}
