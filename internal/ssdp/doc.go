// Package ssdp implements the request side of the Simple Service Discovery
// Protocol used by UPnP.
//
// SSDP is HTTP-shaped text carried in UDP datagrams on the multicast group
// 239.255.255.250:1900. Two inbound verbs matter to a responder:
//
//	M-SEARCH * HTTP/1.1
//	HOST: 239.255.255.250:1900
//	MAN: "ssdp:discover"
//	MX: 2
//	ST: urn:schemas-upnp-org:device:MediaRenderer:1
//
//	NOTIFY * HTTP/1.1
//	NT: upnp:rootdevice
//	NTS: ssdp:alive
//
// # Parsing
//
// ParseRequest tries an ordered list of Parser strategies. A parser that does
// not recognize a datagram returns (nil, nil) and the next one is tried; the
// first request returned wins. New verbs are supported by appending a parser
// to DefaultParsers without touching the dispatch code.
//
// Headers are kept in arrival order and may repeat. The ST header in
// particular can appear several times, and every value is a separate search
// target.
//
// # Generic Targets
//
// A search target starting with "ssdp:" (for example "ssdp:all") matches
// every advertised service.
package ssdp
