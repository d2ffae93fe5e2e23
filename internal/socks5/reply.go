package socks5

import (
	"encoding/binary"
	"net"
	"net/netip"
)

const replyHeaderLen = 4

// EncodeReply encodes a reply carrying the code for err (success when err is
// nil) and the bound address:
//
//	+-----+-----+-------+------+----------+----------+
//	| VER | REP |  RSV  | ATYP | BND.ADDR | BND.PORT |
//	+-----+-----+-------+------+----------+----------+
//	|  1  |  1  | X'00' |  1   | Variable |    2     |
//	+-----+-----+-------+------+----------+----------+
//
// IPv4 and IPv4-mapped addresses produce a 10 byte reply, IPv6 a 22 byte one.
// An invalid bound address is sent as 0.0.0.0:0.
func EncodeReply(err error, bound netip.AddrPort) []byte {
	ip := bound.Addr().Unmap()
	port := bound.Port()
	if !ip.IsValid() {
		ip = netip.IPv4Unspecified()
		port = 0
	}

	atyp := AddrIPv6
	addrLen := net.IPv6len
	if ip.Is4() {
		atyp = AddrIPv4
		addrLen = net.IPv4len
	}

	b := make([]byte, 0, replyHeaderLen+addrLen+portLen)
	b = append(b, Version, ReplyCode(err), Reserved, byte(atyp))
	b = append(b, ip.AsSlice()...)
	b = binary.BigEndian.AppendUint16(b, port)
	return b
}

// BoundAddr converts a connection's local address to the form EncodeReply
// takes. Addresses that carry no IP yield the zero AddrPort.
func BoundAddr(addr net.Addr) netip.AddrPort {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return a.AddrPort()
	case *net.UDPAddr:
		return a.AddrPort()
	}
	if addr == nil {
		return netip.AddrPort{}
	}
	ap, err := netip.ParseAddrPort(addr.String())
	if err != nil {
		return netip.AddrPort{}
	}
	return ap
}
