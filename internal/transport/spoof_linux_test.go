package transport

import (
	"net"
	"testing"
)

func TestSpoofLinkDestination(t *testing.T) {
	known := net.HardwareAddr{0x00, 0x17, 0x88, 0x25, 0x5a, 0xcc}
	tr := &SpoofTransport{
		lookupMAC: func(ip net.IP) (net.HardwareAddr, bool) {
			if ip.Equal(net.IPv4(192, 168, 1, 50)) {
				return known, true
			}
			return nil, false
		},
	}

	tests := []struct {
		name string
		ip   net.IP
		want net.HardwareAddr
	}{
		{name: "multicast group", ip: net.IPv4(239, 255, 255, 250), want: net.HardwareAddr{0x01, 0x00, 0x5e, 0x7f, 0xff, 0xfa}},
		{name: "known neighbour", ip: net.IPv4(192, 168, 1, 50), want: known},
		{name: "unknown neighbour", ip: net.IPv4(192, 168, 1, 99), want: BroadcastMAC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.linkDestination(tt.ip); got.String() != tt.want.String() {
				t.Errorf("linkDestination(%v) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}

func TestNewSpoofTransportRequiresInterface(t *testing.T) {
	if _, err := NewSpoofTransport(SpoofConfig{}); err == nil {
		t.Error("NewSpoofTransport() without interface should fail")
	}
}

func TestHtons(t *testing.T) {
	if got := htons(0x0800); got != 0x0008 {
		t.Errorf("htons(0x0800) = 0x%04x, want 0x0008", got)
	}
}
