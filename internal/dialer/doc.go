// Package dialer provides the outbound side of the proxy: dialers that open
// target connections either directly or through an upstream SOCKS5 proxy,
// and the resolver used to turn request domain names into addresses.
package dialer
