//go:build unix

package transport

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// reuseAddrControl sets SO_REUSEADDR so the responder can share the SSDP
// port with another listener on the host.
func reuseAddrControl(_, _ string, rawConn syscall.RawConn) error {
	var controlErr error
	if err := rawConn.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			controlErr = fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
		}
	}); err != nil {
		return fmt.Errorf("raw control error: %w", err)
	}
	return controlErr
}
