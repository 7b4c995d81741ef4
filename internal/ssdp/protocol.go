package ssdp

import "time"

// Wire constants for SSDP over IPv4 (UPnP Device Architecture 1.x).
const (
	MulticastAddrIPv4 = "239.255.255.250"
	Port              = 1900

	// DefaultMulticastTTL is the hop limit for announcements. UDA recommends 2
	// so NOTIFY traffic does not leave the site.
	DefaultMulticastTTL = 2
)

// Request methods recognized by the parser.
const (
	MethodSearch = "M-SEARCH"
	MethodNotify = "NOTIFY"
)

// Header names used by the responder.
const (
	HeaderSearchTarget = "ST"
	HeaderMX           = "MX"
	HeaderNTS          = "NTS"
)

// GenericTargetPrefix marks search targets that match every service, such as
// "ssdp:all".
const GenericTargetPrefix = "ssdp:"

// Notification sub-types carried in the NTS header.
const (
	NTSAlive   = "ssdp:alive"
	NTSGoodbye = "ssdp:goodbye"
	NTSByeBye  = "ssdp:byebye"
)

// Timing defaults for the announce schedule.
const (
	DefaultAnnouncePeriod = 300 * time.Second
	DefaultSettleDelay    = 2 * time.Second
	DefaultBufferSize     = 4096
)
