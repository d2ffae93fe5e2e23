package socks5

import "fmt"

const (
	// Version is the SOCKS protocol version byte.
	Version byte = 0x05
	// Reserved is the value of the RSV field.
	Reserved byte = 0x00
)

// Authentication methods.
const (
	MethodNoAuth       byte = 0x00
	MethodGSSAPI       byte = 0x01
	MethodUserPass     byte = 0x02
	MethodNoAcceptable byte = 0xff
)

// AddressType is the ATYP field of a request or reply.
type AddressType byte

const (
	AddrIPv4   AddressType = 0x01
	AddrDomain AddressType = 0x03
	AddrIPv6   AddressType = 0x04
)

// ParseAddressType decodes an ATYP byte.
func ParseAddressType(b byte) (AddressType, error) {
	switch t := AddressType(b); t {
	case AddrIPv4, AddrDomain, AddrIPv6:
		return t, nil
	default:
		return 0, ErrAddressTypeNotSupported
	}
}

func (t AddressType) String() string {
	switch t {
	case AddrIPv4:
		return "ipv4"
	case AddrDomain:
		return "domain"
	case AddrIPv6:
		return "ipv6"
	default:
		return fmt.Sprintf("atyp(%#02x)", byte(t))
	}
}

// Command is the CMD field of a request.
type Command byte

const (
	CmdConnect   Command = 0x01
	CmdBind      Command = 0x02
	CmdAssociate Command = 0x03
)

// ParseCommand decodes a CMD byte.
func ParseCommand(b byte) (Command, error) {
	switch c := Command(b); c {
	case CmdConnect, CmdBind, CmdAssociate:
		return c, nil
	default:
		return 0, ErrCommandNotSupported
	}
}

func (c Command) String() string {
	switch c {
	case CmdConnect:
		return "connect"
	case CmdBind:
		return "bind"
	case CmdAssociate:
		return "associate"
	default:
		return fmt.Sprintf("cmd(%#02x)", byte(c))
	}
}

// Reply codes.
const (
	RepSuccess              byte = 0x00
	RepServerFailure        byte = 0x01
	RepNotAllowed           byte = 0x02
	RepNetworkUnreachable   byte = 0x03
	RepHostUnreachable      byte = 0x04
	RepConnectionRefused    byte = 0x05
	RepTTLExpired           byte = 0x06
	RepCommandNotSupported  byte = 0x07
	RepAddrTypeNotSupported byte = 0x08
)
