package responder

import "errors"

var (
	// ErrNoDescriptors is returned by New when there is nothing to answer for.
	ErrNoDescriptors = errors.New("no service descriptors")

	// ErrNotStartable is returned by Start on a responder that already ran.
	ErrNotStartable = errors.New("responder already started or stopped")
)
