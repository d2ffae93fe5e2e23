package proxy

import (
	"net"
	"time"

	"github.com/duratarskeyk/go-common-utils/idlenet"
)

// handshakeConn bounds every negotiation read and write by timeout.
type handshakeConn struct {
	conn    net.Conn
	timeout time.Duration
}

func (c *handshakeConn) Read(p []byte) (int, error) {
	if c.timeout <= 0 {
		return c.conn.Read(p)
	}
	return idlenet.ReadWithTimeout(c.conn, c.timeout, p)
}

func (c *handshakeConn) Write(p []byte) (int, error) {
	if c.timeout <= 0 {
		return c.conn.Write(p)
	}
	return idlenet.WriteWithTimeout(c.conn, c.timeout, p)
}

// done clears the deadlines set during negotiation.
func (c *handshakeConn) done() error {
	return c.conn.SetDeadline(time.Time{})
}
