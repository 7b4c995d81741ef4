package responder

import (
	"fmt"

	"github.com/muurk/staticssdp/internal/logging"
	"github.com/muurk/staticssdp/internal/privilege"
	"github.com/muurk/staticssdp/internal/transport"
	"go.uber.org/zap"
)

// dropPrivileges is replaced in tests.
var dropPrivileges = privilege.Drop

// OpenTransport opens the transport selected by cfg. The spoofing transport
// needs root to open; privileges are dropped right after, and a failed drop
// closes the transport and fails.
func OpenTransport(cfg Config) (transport.Transport, error) {
	cfg = cfg.withDefaults()
	mc := transport.MulticastConfig{
		Group:      cfg.Group,
		Port:       cfg.Port,
		Interface:  cfg.Interface,
		TTL:        cfg.MulticastTTL,
		BufferSize: cfg.BufferSize,
	}

	if !cfg.Spoof.Enabled {
		t, err := transport.NewMulticastTransport(mc)
		if err != nil {
			return nil, fmt.Errorf("open multicast transport: %w", err)
		}
		return t, nil
	}

	t, err := transport.NewSpoofTransport(transport.SpoofConfig{Multicast: mc, TTL: cfg.Spoof.TTL})
	if err != nil {
		return nil, fmt.Errorf("open spoofing transport: %w", err)
	}
	if err := dropPrivileges(cfg.Spoof.User, cfg.Spoof.Group); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("drop privileges to %s:%s: %w", cfg.Spoof.User, cfg.Spoof.Group, err)
	}
	logging.Info("Spoofing transport ready",
		zap.String("interface", cfg.Interface),
		zap.String("user", cfg.Spoof.User),
		zap.String("group", cfg.Spoof.Group),
	)
	return t, nil
}
