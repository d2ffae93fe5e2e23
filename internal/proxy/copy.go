package proxy

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// CopyBidirectional copies between left and right until both directions stop.
//
// When one direction reaches EOF it half-closes its destination so the peer
// sees EOF while the other direction drains. An error in either direction,
// or cancellation of ctx, closes both connections. Both connections are
// closed on return.
func CopyBidirectional(ctx context.Context, left, right net.Conn) error {
	var (
		closeOnce sync.Once
		closed    atomic.Bool
	)
	closeBoth := func() {
		closeOnce.Do(func() {
			closed.Store(true)
			_ = left.Close()
			_ = right.Close()
		})
	}
	defer closeBoth()

	stop := context.AfterFunc(ctx, closeBoth)
	defer stop()

	pipe := func(dst, src net.Conn) func() error {
		return func() error {
			if _, err := io.Copy(dst, src); err != nil {
				// Errors caused by our own close are not failures.
				if closed.Load() {
					return nil
				}
				closeBoth()
				return err
			}
			if !closeWrite(dst) {
				closeBoth()
			}
			return nil
		}
	}

	var g errgroup.Group
	g.Go(pipe(right, left))
	g.Go(pipe(left, right))

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func closeWrite(c net.Conn) bool {
	cw, ok := c.(interface{ CloseWrite() error })
	if !ok {
		return false
	}
	return cw.CloseWrite() == nil
}
