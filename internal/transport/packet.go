package transport

import (
	"errors"
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// MaxUDPPayload is the largest payload that fits one unfragmented IPv4/UDP
// datagram.
const MaxUDPPayload = 65535 - 20 - 8

// ErrNotIPv4 is returned when a packet address is not IPv4.
var ErrNotIPv4 = errors.New("address is not IPv4")

// BuildPacket assembles an IPv4 packet carrying a UDP datagram from src to
// dst. The IP ID is zero with Don't Fragment set, so the output depends only
// on the arguments. Lengths and checksums are filled in.
func BuildPacket(src, dst *net.UDPAddr, ttl uint8, payload []byte) ([]byte, error) {
	if src == nil || dst == nil {
		return nil, fmt.Errorf("build packet: %w", ErrNotIPv4)
	}
	srcIP := src.IP.To4()
	dstIP := dst.IP.To4()
	if srcIP == nil {
		return nil, fmt.Errorf("build packet: source %v: %w", src.IP, ErrNotIPv4)
	}
	if dstIP == nil {
		return nil, fmt.Errorf("build packet: destination %v: %w", dst.IP, ErrNotIPv4)
	}
	if len(payload) > MaxUDPPayload {
		return nil, fmt.Errorf("build packet: payload of %d bytes exceeds %d", len(payload), MaxUDPPayload)
	}

	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      ttl,
		Flags:    layers.IPv4DontFragment,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    srcIP,
		DstIP:    dstIP,
	}
	udp := &layers.UDP{
		SrcPort: layers.UDPPort(src.Port),
		DstPort: layers.UDPPort(dst.Port),
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, fmt.Errorf("build packet: %w", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, ip, udp, gopacket.Payload(payload)); err != nil {
		return nil, fmt.Errorf("build packet: serialize: %w", err)
	}
	return buf.Bytes(), nil
}

// MulticastMAC maps an IPv4 multicast group to its Ethernet address
// (01:00:5e followed by the low 23 bits of the group).
func MulticastMAC(group net.IP) (net.HardwareAddr, bool) {
	ip := group.To4()
	if ip == nil || !ip.IsMulticast() {
		return nil, false
	}
	return net.HardwareAddr{0x01, 0x00, 0x5e, ip[1] & 0x7f, ip[2], ip[3]}, true
}

// BroadcastMAC is the Ethernet broadcast address.
var BroadcastMAC = net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
