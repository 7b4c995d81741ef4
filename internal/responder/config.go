package responder

import (
	"net"
	"time"

	"github.com/muurk/staticssdp/internal/privilege"
	"github.com/muurk/staticssdp/internal/ssdp"
	"github.com/muurk/staticssdp/internal/transport"
)

// Config holds the responder configuration
type Config struct {
	Group        net.IP
	Port         int
	Interface    string // Empty uses the system default interface
	BufferSize   int
	MulticastTTL int

	AnnouncePeriod time.Duration
	SettleDelay    time.Duration // Wait before the first alive announcement
	ReceiveTimeout time.Duration // Upper bound on noticing a shutdown in the receiver
	PollInterval   time.Duration // Scheduler sleep granularity
	QueueSize      int

	GoodbyeNTS string

	Spoof SpoofConfig
}

// SpoofConfig selects the link-layer transport.
type SpoofConfig struct {
	Enabled bool
	User    string
	Group   string
	TTL     uint8
}

// DefaultConfig returns the standard SSDP settings.
func DefaultConfig() Config {
	return Config{
		Group:          net.ParseIP(ssdp.MulticastAddrIPv4),
		Port:           ssdp.Port,
		BufferSize:     ssdp.DefaultBufferSize,
		MulticastTTL:   ssdp.DefaultMulticastTTL,
		AnnouncePeriod: ssdp.DefaultAnnouncePeriod,
		SettleDelay:    ssdp.DefaultSettleDelay,
		ReceiveTimeout: time.Second,
		PollInterval:   100 * time.Millisecond,
		QueueSize:      64,
		GoodbyeNTS:     ssdp.NTSGoodbye,
		Spoof: SpoofConfig{
			User:  privilege.DefaultUser,
			Group: privilege.DefaultGroup,
			TTL:   transport.DefaultSpoofTTL,
		},
	}
}

// withDefaults fills zero fields from DefaultConfig. SettleDelay is left
// alone: zero is a valid setting.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Group == nil {
		c.Group = def.Group
	}
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.BufferSize <= 0 {
		c.BufferSize = def.BufferSize
	}
	if c.MulticastTTL <= 0 {
		c.MulticastTTL = def.MulticastTTL
	}
	if c.AnnouncePeriod <= 0 {
		c.AnnouncePeriod = def.AnnouncePeriod
	}
	if c.ReceiveTimeout <= 0 {
		c.ReceiveTimeout = def.ReceiveTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.GoodbyeNTS == "" {
		c.GoodbyeNTS = def.GoodbyeNTS
	}
	if c.Spoof.TTL == 0 {
		c.Spoof.TTL = def.Spoof.TTL
	}
	return c
}

func (c Config) groupAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: c.Group, Port: c.Port}
}
