package proxy

import (
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/die-net/socksd/internal/dialer"
)

// DefaultBufferSize is the handshake read buffer size, one Ethernet MTU.
const DefaultBufferSize = 1500

// Config holds the per-server settings. Nil Dialer and Resolver fall back
// to direct dialing and the system resolver.
type Config struct {
	// NegotiationTimeout bounds each handshake read and write. Zero disables it.
	NegotiationTimeout time.Duration

	// BufferSize is the capacity of the buffer the greeting and request are
	// read into.
	BufferSize int

	KeepAlive net.KeepAliveConfig

	Dialer   dialer.Dialer
	Resolver dialer.Resolver

	Logger *zap.Logger
}
