//go:build !linux

package transport

// NewSpoofTransport needs AF_PACKET sockets, which only linux provides.
func NewSpoofTransport(cfg SpoofConfig) (Transport, error) {
	return nil, ErrUnsupported
}
