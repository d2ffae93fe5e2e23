package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/die-net/socksd/internal/dialer"
	"github.com/die-net/socksd/internal/logging"
	"github.com/die-net/socksd/internal/proxy"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		socksListen = pflag.StringSlice("socks5-listen", []string{"127.0.0.1:1080"}, "SOCKS5 listen addresses (repeatable or comma separated)")

		upstream = pflag.String("upstream", defaultUpstream(), "Outbound target: direct:// | socks5://[user:pass@]host:port")

		dialTimeout        = pflag.Duration("dial-timeout", 10*time.Second, "Timeout for outbound TCP connect")
		negotiationTimeout = pflag.Duration("negotiation-timeout", 10*time.Second, "Timeout for each SOCKS5 handshake read and write")
		bufferSize         = pflag.Int("buffer-size", proxy.DefaultBufferSize, "Size of the buffer the greeting and request are read into")
		dnsCacheTTL        = pflag.Duration("dns-cache-ttl", 0, "Cache resolved domain names for this long (0 disables)")
		tcpKeepAlive       = pflag.String("tcp-keepalive", "45:45:3", "TCP keepalive: on|off|keepidle:keepintvl:keepcnt")
		reusePort          = pflag.Bool("reuse-port", false, "Open listeners with SO_REUSEPORT")
		logConfig          = pflag.String("log-config", "", "YAML file with a 'log' section (level, format, output, rotation)")
		verbose            = pflag.Bool("verbose", false, "Enable per-connection debug logging")
	)

	if !proxy.ReusePortSupported {
		_ = pflag.CommandLine.MarkHidden("reuse-port")
	}

	pflag.CommandLine.SortFlags = false
	pflag.Parse()

	logCfg := logging.DefaultConfig()
	if *logConfig != "" {
		var err error
		if logCfg, err = logging.LoadConfig(*logConfig); err != nil {
			return err
		}
	}
	if *verbose {
		logCfg.Level = "debug"
	}
	log, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ka, err := parseTCPKeepAlive(*tcpKeepAlive)
	if err != nil {
		return fmt.Errorf("invalid --tcp-keepalive: %w", err)
	}

	if len(*socksListen) == 0 {
		return errors.New("no listeners enabled (set --socks5-listen)")
	}
	if *bufferSize < 262 {
		// A request with a 255 byte domain name is 262 bytes long.
		return fmt.Errorf("invalid --buffer-size: %d is below the 262 byte maximum request", *bufferSize)
	}

	dialCfg := dialer.Config{
		DialTimeout: *dialTimeout,
		KeepAlive:   ka,
		DNSCacheTTL: *dnsCacheTTL,
	}

	cfg := proxy.Config{
		NegotiationTimeout: *negotiationTimeout,
		BufferSize:         *bufferSize,
		KeepAlive:          ka,
		Resolver:           dialer.NewResolver(dialCfg),
		Logger:             log,
	}

	cfg.Dialer, err = dialer.New(dialCfg, *upstream)
	if err != nil {
		return fmt.Errorf("invalid --upstream: %w", err)
	}

	g, ctx := errgroup.WithContext(context.Background())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s5 := proxy.NewSOCKS5Server(ctx, cfg)
	for _, addr := range *socksListen {
		ln, err := proxy.ListenTCP("tcp", addr, ka, *reusePort)
		if err != nil {
			return fmt.Errorf("socks5 listen: %w", err)
		}
		context.AfterFunc(ctx, func() {
			_ = ln.Close()
		})

		g.Go(func() error {
			if err := s5.Serve(ln); err != nil && ctx.Err() == nil {
				return fmt.Errorf("socks5 serve: %w", err)
			}
			return nil
		})

		log.Info("socks5 proxy listening", zap.Stringer("addr", ln.Addr()), zap.String("upstream", *upstream))
	}

	err = g.Wait()

	log.Info("shutting down")
	return err
}

func parseTCPKeepAlive(s string) (net.KeepAliveConfig, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return net.KeepAliveConfig{}, errors.New("empty")
	}
	if s == "on" {
		return net.KeepAliveConfig{Enable: true}, nil
	}
	if s == "off" {
		return net.KeepAliveConfig{Enable: false}, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return net.KeepAliveConfig{}, errors.New("expected on|off|keepidle:keepintvl:keepcnt")
	}
	keepIdle, err := parsePositiveSeconds(parts[0])
	if err != nil {
		return net.KeepAliveConfig{}, fmt.Errorf("keepidle: %w", err)
	}
	keepIntvl, err := parsePositiveSeconds(parts[1])
	if err != nil {
		return net.KeepAliveConfig{}, fmt.Errorf("keepintvl: %w", err)
	}
	keepCnt, err := parsePositiveInt(parts[2])
	if err != nil {
		return net.KeepAliveConfig{}, fmt.Errorf("keepcnt: %w", err)
	}

	return net.KeepAliveConfig{
		Enable:   true,
		Idle:     keepIdle,
		Interval: keepIntvl,
		Count:    keepCnt,
	}, nil
}

func parsePositiveSeconds(s string) (time.Duration, error) {
	n, err := parsePositiveInt(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be > 0")
	}
	return n, nil
}

func defaultUpstream() string {
	if p := os.Getenv("ALL_PROXY"); p != "" && strings.HasPrefix(strings.ToLower(p), "socks5://") {
		return p
	}
	return "direct://"
}
