package transport

// SpoofConfig configures the spoofing transport.
type SpoofConfig struct {
	// Multicast configures the receive side. Its Interface is also the link
	// the raw socket is bound to.
	Multicast MulticastConfig

	// TTL of the hand-built IPv4 packets.
	TTL uint8
}

// DefaultSpoofTTL is the IPv4 TTL of spoofed packets.
const DefaultSpoofTTL = 15
