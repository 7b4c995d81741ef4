package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// SpoofTransport receives through a multicast socket and sends through an
// AF_PACKET socket, writing IPv4 packets whose source address is chosen per
// packet. Opening it requires CAP_NET_RAW.
type SpoofTransport struct {
	rx         *MulticastTransport
	fd         int
	iface      *net.Interface
	defaultSrc net.IP
	srcPort    int
	ttl        uint8
	lookupMAC  func(ip net.IP) (net.HardwareAddr, bool)
}

// NewSpoofTransport opens the link-layer socket on cfg.Multicast.Interface
// and the multicast receive socket.
func NewSpoofTransport(cfg SpoofConfig) (Transport, error) {
	if cfg.Multicast.Interface == "" {
		return nil, &NetworkError{Operation: "open raw socket", Err: errors.New("an interface name is required")}
	}
	iface, err := net.InterfaceByName(cfg.Multicast.Interface)
	if err != nil {
		return nil, &NetworkError{Operation: "lookup interface", Details: cfg.Multicast.Interface, Err: err}
	}

	// SOCK_DGRAM: the kernel writes the link header from the sockaddr we
	// pass to sendto, we supply everything from the IP header on.
	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_DGRAM, int(htons(unix.ETH_P_IP)))
	if err != nil {
		return nil, &NetworkError{Operation: "open raw socket", Details: iface.Name, Err: err}
	}
	sa := &unix.SockaddrLinklayer{
		Protocol: htons(unix.ETH_P_IP),
		Ifindex:  iface.Index,
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, &NetworkError{Operation: "bind raw socket", Details: iface.Name, Err: err}
	}

	rx, err := NewMulticastTransport(cfg.Multicast)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultSpoofTTL
	}

	t := &SpoofTransport{
		rx:         rx,
		fd:         fd,
		iface:      iface,
		defaultSrc: interfaceIPv4(iface),
		srcPort:    cfg.Multicast.Port,
		ttl:        ttl,
	}
	t.lookupMAC = t.neighbourMAC
	return t, nil
}

// Send builds an IPv4/UDP packet from pkt.Source (or the interface address)
// and writes it to the link.
func (t *SpoofTransport) Send(ctx context.Context, pkt Packet) error {
	if err := checkContext(ctx, "send"); err != nil {
		return err
	}

	src := pkt.Source
	if src == nil {
		src = t.defaultSrc
	}
	if src == nil {
		return &NetworkError{Operation: "send", Err: fmt.Errorf("no source address and %s has no IPv4 address", t.iface.Name)}
	}

	frame, err := BuildPacket(&net.UDPAddr{IP: src, Port: t.srcPort}, pkt.Dest, t.ttl, pkt.Payload)
	if err != nil {
		return &NetworkError{Operation: "send", Err: err}
	}

	mac := t.linkDestination(pkt.Dest.IP)
	sa := &unix.SockaddrLinklayer{
		Protocol: htons(unix.ETH_P_IP),
		Ifindex:  t.iface.Index,
		Halen:    uint8(len(mac)),
	}
	copy(sa.Addr[:], mac)

	if err := unix.Sendto(t.fd, frame, 0, sa); err != nil {
		return &NetworkError{
			Operation: "send",
			Details:   fmt.Sprintf("%d bytes %s -> %s via %s", len(frame), src, pkt.Dest, t.iface.Name),
			Err:       err,
		}
	}
	return nil
}

// linkDestination picks the Ethernet destination for ip: the group MAC for
// multicast, the neighbour table entry for unicast, broadcast otherwise.
func (t *SpoofTransport) linkDestination(ip net.IP) net.HardwareAddr {
	if mac, ok := MulticastMAC(ip); ok {
		return mac
	}
	if mac, ok := t.lookupMAC(ip); ok {
		return mac
	}
	return BroadcastMAC
}

func (t *SpoofTransport) neighbourMAC(ip net.IP) (net.HardwareAddr, bool) {
	neighs, err := netlink.NeighList(t.iface.Index, netlink.FAMILY_V4)
	if err != nil {
		return nil, false
	}
	for _, n := range neighs {
		if !n.IP.Equal(ip) || len(n.HardwareAddr) != 6 {
			continue
		}
		if n.State&(netlink.NUD_FAILED|netlink.NUD_INCOMPLETE) != 0 {
			continue
		}
		return n.HardwareAddr, true
	}
	return nil, false
}

// Receive reads from the multicast socket.
func (t *SpoofTransport) Receive(ctx context.Context) ([]byte, *net.UDPAddr, error) {
	return t.rx.Receive(ctx)
}

// Close closes both sockets.
func (t *SpoofTransport) Close() error {
	rxErr := t.rx.Close()
	if err := unix.Close(t.fd); err != nil {
		return &NetworkError{Operation: "close raw socket", Err: err}
	}
	return rxErr
}

func interfaceIPv4(iface *net.Interface) net.IP {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil
	}
	for _, a := range addrs {
		if ipNet, ok := a.(*net.IPNet); ok {
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				return ip4
			}
		}
	}
	return nil
}

func htons(v uint16) uint16 {
	return (v >> 8) | (v << 8)
}
