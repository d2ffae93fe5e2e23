package proxy

import (
	"net/http/httputil"
	"sync"
)

// handshakePool hands out read buffers for the greeting and request.
// Buffers come back at full length, so a caller may Put a resliced buffer.
type handshakePool struct {
	size int
	pool sync.Pool
}

// NewBufferPool returns a pool of size-byte handshake buffers.
func NewBufferPool(size int) httputil.BufferPool {
	p := &handshakePool{size: size}
	p.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return p
}

func (p *handshakePool) Get() []byte {
	return *p.pool.Get().(*[]byte)
}

func (p *handshakePool) Put(b []byte) {
	if cap(b) < p.size {
		return
	}
	b = b[:p.size]
	p.pool.Put(&b)
}
