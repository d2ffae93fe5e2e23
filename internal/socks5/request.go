package socks5

import (
	"encoding/binary"
	"net"
	"net/netip"
	"strconv"
)

const portLen = 2

// DestAddr is the destination of a request: either an IP literal or a domain
// name that has not been resolved yet.
type DestAddr struct {
	IP netip.Addr
	// Domain holds the raw name bytes for AddrDomain. They are not validated
	// as text.
	Domain []byte
}

// IsDomain reports whether the address still needs resolving.
func (a DestAddr) IsDomain() bool {
	return !a.IP.IsValid()
}

func (a DestAddr) String() string {
	if a.IsDomain() {
		return string(a.Domain)
	}
	return a.IP.String()
}

// Request is a parsed client request.
type Request struct {
	Command Command
	Addr    DestAddr
	Port    uint16
}

// Address returns the destination as host:port.
func (r *Request) Address() string {
	return net.JoinHostPort(r.Addr.String(), strconv.Itoa(int(r.Port)))
}

// ParseRequest parses a client request:
//
//	+-----+-----+-------+------+----------+----------+
//	| VER | CMD |  RSV  | ATYP | DST.ADDR | DST.PORT |
//	+-----+-----+-------+------+----------+----------+
//	|  1  |  1  | X'00' |  1   | Variable |    2     |
//	+-----+-----+-------+------+----------+----------+
//
// The version and reserved bytes are not validated.
func ParseRequest(buf []byte) (byte, *Request, error) {
	if len(buf) < 5 {
		return 0, nil, ErrShortBuffer
	}

	ver := buf[0]
	cmd, err := ParseCommand(buf[1])
	if err != nil {
		return 0, nil, err
	}
	atyp, err := ParseAddressType(buf[3])
	if err != nil {
		return 0, nil, err
	}

	req := &Request{Command: cmd}
	rest := buf[4:]
	var portStart int
	switch atyp {
	case AddrIPv4:
		if len(rest) < net.IPv4len+portLen {
			return 0, nil, ErrShortBuffer
		}
		req.Addr.IP = netip.AddrFrom4([4]byte(rest[:net.IPv4len]))
		portStart = net.IPv4len
	case AddrIPv6:
		if len(rest) < net.IPv6len+portLen {
			return 0, nil, ErrShortBuffer
		}
		req.Addr.IP = netip.AddrFrom16([16]byte(rest[:net.IPv6len]))
		portStart = net.IPv6len
	case AddrDomain:
		l := int(rest[0])
		if len(rest) < 1+l+portLen {
			return 0, nil, ErrShortBuffer
		}
		req.Addr.Domain = make([]byte, l)
		copy(req.Addr.Domain, rest[1:1+l])
		portStart = 1 + l
	}

	req.Port = binary.BigEndian.Uint16(rest[portStart : portStart+portLen])

	return ver, req, nil
}
