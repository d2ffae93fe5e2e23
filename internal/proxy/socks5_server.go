package proxy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http/httputil"
	"net/netip"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/die-net/socksd/internal/dialer"
	"github.com/die-net/socksd/internal/socks5"
)

var errNoAcceptableMethod = errors.New("client does not offer no-auth")

// connState is the position of one connection in the handshake.
type connState int

const (
	stateAwaitingGreeting connState = iota
	stateAwaitingRequest
	stateResolving
	stateDialing
	stateRelaying
	stateClosed
)

var stateNames = [...]string{
	stateAwaitingGreeting: "awaiting_greeting",
	stateAwaitingRequest:  "awaiting_request",
	stateResolving:        "resolving",
	stateDialing:          "dialing",
	stateRelaying:         "relaying",
	stateClosed:           "closed",
}

func (s connState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// SOCKS5Server accepts SOCKS5 clients and serves CONNECT requests without
// authentication. BIND and UDP ASSOCIATE are refused by closing the
// connection.
type SOCKS5Server struct {
	ctx  context.Context
	cfg  Config
	log  *zap.Logger
	bufs httputil.BufferPool
}

// NewSOCKS5Server returns a server that handles each accepted connection in
// its own goroutine. Connections are closed when ctx is done.
func NewSOCKS5Server(ctx context.Context, cfg Config) *SOCKS5Server {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.Dialer == nil {
		cfg.Dialer = dialer.NewDirectDialer(dialer.Config{KeepAlive: cfg.KeepAlive})
	}
	if cfg.Resolver == nil {
		cfg.Resolver = dialer.NewResolver(dialer.Config{})
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &SOCKS5Server{
		ctx:  ctx,
		cfg:  cfg,
		log:  log.Named("socks5"),
		bufs: NewBufferPool(cfg.BufferSize),
	}
}

// Serve accepts connections from ln until Accept fails.
func (s *SOCKS5Server) Serve(ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConn(c)
	}
}

func (s *SOCKS5Server) handleConn(conn net.Conn) {
	defer conn.Close()

	log := s.log.With(
		zap.String("conn", uuid.NewString()[:8]),
		zap.Stringer("client", conn.RemoteAddr()),
	)

	state, err := s.serveConn(conn, log)
	if err != nil {
		log.Debug("connection failed", zap.Stringer("state", state), zap.Error(err))
		return
	}
	log.Debug("connection closed", zap.Stringer("state", state))
}

// serveConn drives conn through the handshake and relay. It returns the state
// the connection was in when it stopped.
func (s *SOCKS5Server) serveConn(conn net.Conn, log *zap.Logger) (connState, error) {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	hc := &handshakeConn{conn: conn, timeout: s.cfg.NegotiationTimeout}
	bw := bufio.NewWriter(hc)

	buf := s.bufs.Get()
	defer s.bufs.Put(buf)

	n, err := hc.Read(buf)
	if err != nil {
		return stateAwaitingGreeting, fmt.Errorf("read greeting: %w", err)
	}
	ver, methods, err := socks5.ParseGreeting(buf[:n])
	if err != nil {
		return stateAwaitingGreeting, fmt.Errorf("greeting: %w", err)
	}
	if ver != socks5.Version {
		return stateAwaitingGreeting, fmt.Errorf("greeting: unsupported version %#x", ver)
	}

	method := socks5.SelectMethod(methods)
	if err := writeFlush(bw, socks5.EncodeMethodSelection(method)); err != nil {
		return stateAwaitingGreeting, fmt.Errorf("method selection: %w", err)
	}
	if method != socks5.MethodNoAuth {
		return stateAwaitingGreeting, errNoAcceptableMethod
	}

	n, err = hc.Read(buf)
	if err != nil {
		err = socks5.IOError(err)
		s.replyError(bw, conn, err)
		return stateAwaitingRequest, fmt.Errorf("read request: %w", err)
	}
	_, req, err := socks5.ParseRequest(buf[:n])
	if err != nil {
		s.replyError(bw, conn, err)
		return stateAwaitingRequest, fmt.Errorf("request: %w", err)
	}

	log = log.With(zap.Stringer("cmd", req.Command), zap.String("dst", req.Address()))
	if req.Command != socks5.CmdConnect {
		log.Debug("command not implemented, closing")
		return stateAwaitingRequest, nil
	}

	ip := req.Addr.IP
	if req.Addr.IsDomain() {
		addrs, err := s.cfg.Resolver.LookupNetIP(ctx, "ip", string(req.Addr.Domain))
		if err != nil || len(addrs) == 0 {
			err = socks5.Wrap(socks5.KindHostUnreachable, err)
			s.replyError(bw, conn, err)
			return stateResolving, err
		}
		// Only the first answer is tried.
		ip = addrs[0].Unmap()
	}

	target := netip.AddrPortFrom(ip, req.Port).String()
	up, err := s.cfg.Dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		err = socks5.IOError(err)
		s.replyError(bw, conn, err)
		return stateDialing, err
	}
	defer up.Close()

	if err := writeFlush(bw, socks5.EncodeReply(nil, socks5.BoundAddr(up.LocalAddr()))); err != nil {
		return stateDialing, fmt.Errorf("success reply: %w", err)
	}
	if err := hc.done(); err != nil {
		return stateDialing, fmt.Errorf("clear deadline: %w", err)
	}

	log.Debug("relaying", zap.String("target", target))
	if err := CopyBidirectional(ctx, conn, up); err != nil {
		return stateRelaying, fmt.Errorf("relay: %w", err)
	}
	return stateClosed, nil
}

// replyError sends a best-effort failure reply carrying the client-facing
// local address.
func (s *SOCKS5Server) replyError(w *bufio.Writer, conn net.Conn, err error) {
	_ = writeFlush(w, socks5.EncodeReply(err, socks5.BoundAddr(conn.LocalAddr())))
}

func writeFlush(w *bufio.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return err
	}
	return w.Flush()
}
