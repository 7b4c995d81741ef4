// Package privilege gives up root after the sockets that need it are open.
package privilege

import "errors"

// Defaults used when no user or group is configured.
const (
	DefaultUser  = "nobody"
	DefaultGroup = "nogroup"
)

// ErrUnsupported is returned by Drop on platforms without setuid semantics.
var ErrUnsupported = errors.New("privilege drop not supported on this platform")
