package transport

import (
	"bytes"
	"errors"
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

func TestBuildPacket(t *testing.T) {
	src := &net.UDPAddr{IP: net.IPv4(192, 168, 1, 20), Port: 1900}
	dst := &net.UDPAddr{IP: net.IPv4(192, 168, 1, 50), Port: 50123}
	payload := []byte("HTTP/1.1 200 OK\r\nST: upnp:rootdevice\r\n\r\n")

	raw, err := BuildPacket(src, dst, 15, payload)
	if err != nil {
		t.Fatalf("BuildPacket() error = %v", err)
	}

	if want := 20 + 8 + len(payload); len(raw) != want {
		t.Fatalf("packet length = %d, want %d", len(raw), want)
	}

	packet := gopacket.NewPacket(raw, layers.LayerTypeIPv4, gopacket.Default)
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		t.Fatalf("decode error: %v", errLayer.Error())
	}

	ip, ok := packet.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	if !ok {
		t.Fatal("no IPv4 layer")
	}
	if !ip.SrcIP.Equal(src.IP) {
		t.Errorf("SrcIP = %v, want %v", ip.SrcIP, src.IP)
	}
	if !ip.DstIP.Equal(dst.IP) {
		t.Errorf("DstIP = %v, want %v", ip.DstIP, dst.IP)
	}
	if ip.TTL != 15 {
		t.Errorf("TTL = %d, want 15", ip.TTL)
	}
	if ip.Protocol != layers.IPProtocolUDP {
		t.Errorf("Protocol = %v, want UDP", ip.Protocol)
	}
	if int(ip.Length) != len(raw) {
		t.Errorf("IP total length = %d, want %d", ip.Length, len(raw))
	}

	udp, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if !ok {
		t.Fatal("no UDP layer")
	}
	if udp.SrcPort != 1900 || udp.DstPort != 50123 {
		t.Errorf("ports = %d -> %d, want 1900 -> 50123", udp.SrcPort, udp.DstPort)
	}
	if int(udp.Length) != 8+len(payload) {
		t.Errorf("UDP length = %d, want %d", udp.Length, 8+len(payload))
	}
	if !bytes.Equal(udp.Payload, payload) {
		t.Errorf("payload = %q, want %q", udp.Payload, payload)
	}
}

func TestBuildPacketChecksum(t *testing.T) {
	src := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 1900}
	dst := &net.UDPAddr{IP: net.IPv4(239, 255, 255, 250), Port: 1900}

	raw, err := BuildPacket(src, dst, 2, []byte("NOTIFY * HTTP/1.1\r\n\r\n"))
	if err != nil {
		t.Fatalf("BuildPacket() error = %v", err)
	}

	// The one's complement sum over a header with a correct checksum is 0xffff.
	var sum uint32
	for i := 0; i < 20; i += 2 {
		sum += uint32(raw[i])<<8 | uint32(raw[i+1])
	}
	for sum > 0xffff {
		sum = (sum >> 16) + (sum & 0xffff)
	}
	if sum != 0xffff {
		t.Errorf("IPv4 header checksum invalid, folded sum = 0x%04x", sum)
	}
}

func TestBuildPacketDeterministic(t *testing.T) {
	src := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 1900}
	dst := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 2), Port: 1234}

	a, err := BuildPacket(src, dst, 15, []byte("x"))
	if err != nil {
		t.Fatalf("BuildPacket() error = %v", err)
	}
	b, err := BuildPacket(src, dst, 15, []byte("x"))
	if err != nil {
		t.Fatalf("BuildPacket() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("BuildPacket() output differs for identical input")
	}
}

func TestBuildPacketErrors(t *testing.T) {
	v4 := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 1900}
	v6 := &net.UDPAddr{IP: net.ParseIP("fe80::1"), Port: 1900}

	tests := []struct {
		name     string
		src, dst *net.UDPAddr
		payload  []byte
		wantErr  error
	}{
		{name: "ipv6 source", src: v6, dst: v4, wantErr: ErrNotIPv4},
		{name: "ipv6 destination", src: v4, dst: v6, wantErr: ErrNotIPv4},
		{name: "nil destination", src: v4, dst: nil, wantErr: ErrNotIPv4},
		{name: "oversized payload", src: v4, dst: v4, payload: make([]byte, MaxUDPPayload+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPacket(tt.src, tt.dst, 15, tt.payload)
			if err == nil {
				t.Fatal("BuildPacket() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("BuildPacket() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMulticastMAC(t *testing.T) {
	tests := []struct {
		ip     string
		want   string
		wantOK bool
	}{
		{ip: "239.255.255.250", want: "01:00:5e:7f:ff:fa", wantOK: true},
		{ip: "224.0.0.251", want: "01:00:5e:00:00:fb", wantOK: true},
		{ip: "192.168.1.1", wantOK: false},
		{ip: "ff02::c", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			mac, ok := MulticastMAC(net.ParseIP(tt.ip))
			if ok != tt.wantOK {
				t.Fatalf("MulticastMAC(%s) ok = %v, want %v", tt.ip, ok, tt.wantOK)
			}
			if ok && mac.String() != tt.want {
				t.Errorf("MulticastMAC(%s) = %s, want %s", tt.ip, mac, tt.want)
			}
		})
	}
}
