package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/ipv4"
)

// MulticastConfig configures the SSDP listening socket.
type MulticastConfig struct {
	Group      net.IP
	Port       int
	Interface  string // empty joins on the system default interface
	TTL        int
	BufferSize int
}

// MulticastTransport is a UDP socket bound to the SSDP port and joined to
// the multicast group.
type MulticastTransport struct {
	conn       net.PacketConn
	pconn      *ipv4.PacketConn
	iface      *net.Interface
	group      *net.UDPAddr
	bufferSize int
}

// NewMulticastTransport binds 0.0.0.0:port with SO_REUSEADDR, sets the
// multicast TTL and joins the group.
func NewMulticastTransport(cfg MulticastConfig) (*MulticastTransport, error) {
	group := cfg.Group.To4()
	if group == nil || !group.IsMulticast() {
		return nil, &NetworkError{
			Operation: "resolve group",
			Err:       fmt.Errorf("%v is not an IPv4 multicast address", cfg.Group),
		}
	}

	var iface *net.Interface
	if cfg.Interface != "" {
		ifi, err := net.InterfaceByName(cfg.Interface)
		if err != nil {
			return nil, &NetworkError{Operation: "lookup interface", Details: cfg.Interface, Err: err}
		}
		iface = ifi
	}

	lc := net.ListenConfig{Control: reuseAddrControl}
	listenAddr := net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Port))
	conn, err := lc.ListenPacket(context.Background(), "udp4", listenAddr)
	if err != nil {
		return nil, &NetworkError{Operation: "bind", Details: listenAddr, Err: err}
	}

	pconn := ipv4.NewPacketConn(conn)

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 2
	}
	if err := pconn.SetMulticastTTL(ttl); err != nil {
		_ = conn.Close()
		return nil, &NetworkError{Operation: "set multicast ttl", Details: strconv.Itoa(ttl), Err: err}
	}

	if iface != nil {
		if err := pconn.SetMulticastInterface(iface); err != nil {
			_ = conn.Close()
			return nil, &NetworkError{Operation: "set multicast interface", Details: iface.Name, Err: err}
		}
	}

	groupAddr := &net.UDPAddr{IP: group, Port: cfg.Port}
	if err := pconn.JoinGroup(iface, &net.UDPAddr{IP: group}); err != nil {
		_ = conn.Close()
		return nil, &NetworkError{Operation: "join group", Details: group.String(), Err: err}
	}

	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	return &MulticastTransport{
		conn:       conn,
		pconn:      pconn,
		iface:      iface,
		group:      groupAddr,
		bufferSize: bufferSize,
	}, nil
}

// Send writes pkt.Payload to pkt.Dest. pkt.Source is ignored: the kernel
// always uses an address of this host.
func (t *MulticastTransport) Send(ctx context.Context, pkt Packet) error {
	if err := checkContext(ctx, "send"); err != nil {
		return err
	}

	n, err := t.pconn.WriteTo(pkt.Payload, nil, pkt.Dest)
	if err != nil {
		return &NetworkError{
			Operation: "send",
			Details:   fmt.Sprintf("%d bytes to %s", len(pkt.Payload), pkt.Dest),
			Err:       err,
		}
	}
	if n != len(pkt.Payload) {
		return &NetworkError{
			Operation: "send",
			Details:   "incomplete transmission",
			Err:       fmt.Errorf("partial write: %d/%d bytes", n, len(pkt.Payload)),
		}
	}
	return nil
}

// Receive reads one datagram. The context deadline, if any, becomes the read
// deadline.
func (t *MulticastTransport) Receive(ctx context.Context) ([]byte, *net.UDPAddr, error) {
	if err := checkContext(ctx, "receive"); err != nil {
		return nil, nil, err
	}

	deadline, _ := ctx.Deadline()
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return nil, nil, &NetworkError{Operation: "set read deadline", Details: deadline.Format(time.RFC3339Nano), Err: err}
	}

	buf := make([]byte, t.bufferSize)
	n, _, src, err := t.pconn.ReadFrom(buf)
	if err != nil {
		return nil, nil, &NetworkError{Operation: "receive", Err: err}
	}

	udpAddr, ok := src.(*net.UDPAddr)
	if !ok {
		return nil, nil, &NetworkError{Operation: "receive", Err: fmt.Errorf("unexpected source address type %T", src)}
	}
	return buf[:n], udpAddr, nil
}

// Close leaves the group and closes the socket.
func (t *MulticastTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	_ = t.pconn.LeaveGroup(t.iface, &net.UDPAddr{IP: t.group.IP})
	if err := t.conn.Close(); err != nil {
		return &NetworkError{Operation: "close", Err: err}
	}
	return nil
}
