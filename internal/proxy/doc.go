// Package proxy implements the listener side of the SOCKS5 proxy.
//
// It contains the per-connection orchestrator (greeting, request, resolve,
// dial, reply, relay) and shared connection plumbing such as keepalive
// listeners, handshake buffers, and bidirectional copy.
package proxy
