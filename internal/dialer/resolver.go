package dialer

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/patrickmn/go-cache"
)

// Resolver turns a host name into a non-empty ordered list of addresses.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// LookupFunc is the backend a resolver queries; (*net.Resolver).LookupNetIP
// satisfies it.
type LookupFunc func(ctx context.Context, network, host string) ([]netip.Addr, error)

type resolver struct {
	lookup LookupFunc
	cache  *cache.Cache
}

// NewResolver returns a Resolver backed by net.DefaultResolver.
func NewResolver(cfg Config) Resolver {
	return NewResolverWithLookup(cfg, net.DefaultResolver.LookupNetIP)
}

// NewResolverWithLookup returns a Resolver backed by lookup, caching answers
// for cfg.DNSCacheTTL when it is positive.
func NewResolverWithLookup(cfg Config, lookup LookupFunc) Resolver {
	r := &resolver{lookup: lookup}
	if cfg.DNSCacheTTL > 0 {
		r.cache = cache.New(cfg.DNSCacheTTL, cleanupInterval(cfg.DNSCacheTTL))
	}
	return r
}

func (r *resolver) LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error) {
	key := network + "/" + host
	if r.cache != nil {
		if v, ok := r.cache.Get(key); ok {
			return v.([]netip.Addr), nil
		}
	}

	addrs, err := r.lookup(ctx, network, host)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", host, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("resolve %q: no addresses", host)
	}

	if r.cache != nil {
		r.cache.SetDefault(key, addrs)
	}
	return addrs, nil
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return time.Minute
	}
	return 2 * ttl
}
