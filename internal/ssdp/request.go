package ssdp

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// HeaderField is a single "Name: value" line.
type HeaderField struct {
	Name  string
	Value string
}

// Header is an ordered multimap of header lines. Names keep the spelling
// they arrived with; lookups are case-insensitive.
type Header []HeaderField

// Add appends a value for name, keeping any earlier values.
func (h *Header) Add(name, value string) {
	*h = append(*h, HeaderField{Name: name, Value: value})
}

// Values returns every value for name in arrival order.
func (h Header) Values(name string) []string {
	var values []string
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// Get returns the first value for name, or "" if absent.
func (h Header) Get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Request is a parsed SSDP datagram.
type Request struct {
	Method  string
	Path    string
	Version string
	Header  Header
	Remote  *net.UDPAddr
}

// SearchTargets returns every ST value of the request. The header may repeat
// and each value is matched independently.
func (r *Request) SearchTargets() []string {
	return r.Header.Values(HeaderSearchTarget)
}

// MX returns the maximum wait in seconds requested by a searcher.
func (r *Request) MX() (int, bool) {
	raw := r.Header.Get(HeaderMX)
	if raw == "" {
		return 0, false
	}
	mx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return mx, true
}

// IsSearch reports whether the request is an M-SEARCH.
func (r *Request) IsSearch() bool {
	return r.Method == MethodSearch
}

func (r *Request) String() string {
	remote := "<nil>"
	if r.Remote != nil {
		remote = r.Remote.String()
	}
	return fmt.Sprintf("%s %s %s from %s (%d headers)", r.Method, r.Path, r.Version, remote, len(r.Header))
}
