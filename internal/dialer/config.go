package dialer

import (
	"net"
	"time"
)

type Config struct {
	DialTimeout time.Duration
	KeepAlive   net.KeepAliveConfig

	// DNSCacheTTL enables resolver caching when positive.
	DNSCacheTTL time.Duration
}
