package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"testing"
)

func TestNetworkError(t *testing.T) {
	inner := errors.New("address in use")
	err := &NetworkError{Operation: "bind", Details: "0.0.0.0:1900", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if got := err.Error(); got != "bind: 0.0.0.0:1900: address in use" {
		t.Errorf("Error() = %q", got)
	}

	noDetails := &NetworkError{Operation: "close", Err: inner}
	if got := noDetails.Error(); got != "close: address in use" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "deadline exceeded", err: os.ErrDeadlineExceeded, want: true},
		{name: "wrapped deadline", err: &NetworkError{Operation: "receive", Err: os.ErrDeadlineExceeded}, want: true},
		{name: "context deadline", err: fmt.Errorf("x: %w", context.DeadlineExceeded), want: true},
		{name: "net timeout", err: &net.OpError{Op: "read", Err: timeoutErr{}}, want: true},
		{name: "other", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTimeout(tt.err); got != tt.want {
				t.Errorf("IsTimeout(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCheckContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	if err := checkContext(ctx, "send"); err != nil {
		t.Fatalf("checkContext() on live context = %v", err)
	}
	cancel()
	err := checkContext(ctx, "send")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("checkContext() = %v, want context.Canceled", err)
	}
	if !strings.HasPrefix(err.Error(), "send") {
		t.Errorf("error %q should name the operation", err)
	}
}

func TestNewMulticastTransportRejectsUnicastGroup(t *testing.T) {
	_, err := NewMulticastTransport(MulticastConfig{Group: net.IPv4(192, 168, 1, 1), Port: 0})
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if netErr.Operation != "resolve group" {
		t.Errorf("Operation = %q, want resolve group", netErr.Operation)
	}
}

func TestNewMulticastTransportUnknownInterface(t *testing.T) {
	_, err := NewMulticastTransport(MulticastConfig{
		Group:     net.IPv4(239, 255, 255, 250),
		Interface: "does-not-exist0",
	})
	var netErr *NetworkError
	if !errors.As(err, &netErr) || netErr.Operation != "lookup interface" {
		t.Errorf("error = %v, want lookup interface failure", err)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
