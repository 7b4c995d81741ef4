// Package transport sends and receives SSDP datagrams.
//
// Two implementations share the Transport interface:
//   - MulticastTransport: a UDP socket bound to the SSDP port that joins the
//     multicast group. This is the normal mode.
//   - SpoofTransport (linux): receives like MulticastTransport but sends
//     hand-built IPv4/UDP packets through a link-layer socket, so replies
//     can carry the address of a device the host is answering for.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
)

// ErrUnsupported is returned by transports the platform cannot provide.
var ErrUnsupported = errors.New("transport not supported on this platform")

// Packet is one outbound datagram.
type Packet struct {
	Payload []byte
	// Source is the IPv4 address the packet should appear to come from. Only
	// the spoofing transport honours it; nil means the host's own address.
	Source net.IP
	Dest   *net.UDPAddr
}

// Transport abstracts the responder's socket.
type Transport interface {
	// Send transmits one packet.
	Send(ctx context.Context, pkt Packet) error

	// Receive waits for the next datagram. A context deadline is applied to
	// the socket; when it passes the returned error satisfies IsTimeout.
	Receive(ctx context.Context) ([]byte, *net.UDPAddr, error)

	// Close releases the socket(s).
	Close() error
}

// NetworkError describes a failed socket operation.
type NetworkError struct {
	Operation string
	Details   string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a receive deadline expiring.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func checkContext(ctx context.Context, operation string) error {
	select {
	case <-ctx.Done():
		return &NetworkError{Operation: operation, Details: "context done", Err: ctx.Err()}
	default:
		return nil
	}
}
