// Package advertise publishes DNS-SD records next to the SSDP services, for
// devices that clients look up over mDNS as well as SSDP.
package advertise

import (
	"fmt"
	"net"
	"sync"

	"github.com/grandcat/zeroconf"
	"github.com/muurk/staticssdp/internal/logging"
	"github.com/muurk/staticssdp/internal/service"
	"go.uber.org/zap"
)

// DefaultDomain is the mDNS domain used when a record names none.
const DefaultDomain = "local."

// Record is one DNS-SD proxy registration.
type Record struct {
	Instance string
	Service  string
	Domain   string
	Host     string
	Port     int
	IPs      []string
	Text     []string
}

// RecordFor maps a descriptor's mdns settings to a Record. It reports false
// for descriptors without them.
func RecordFor(d *service.Descriptor) (Record, bool) {
	if d.MDNS == nil {
		return Record{}, false
	}
	m := d.MDNS
	r := Record{
		Instance: m.Instance,
		Service:  m.Service,
		Domain:   m.Domain,
		Host:     m.Host,
		Port:     m.Port,
		IPs:      m.IPs,
		Text:     m.Text,
	}
	if r.Domain == "" {
		r.Domain = DefaultDomain
	}
	if r.Host == "" {
		r.Host = r.Instance
	}
	if len(r.IPs) == 0 {
		if ip := sourceIP(d); ip != nil {
			r.IPs = []string{ip.String()}
		}
	}
	return r, true
}

// sourceIP resolves the descriptor's ip field the way the first service
// sees it. Values that do not resolve to an address are ignored.
func sourceIP(d *service.Descriptor) net.IP {
	var svc service.Service
	if len(d.Services) > 0 {
		svc = d.Services[0]
	}
	fields, err := service.Resolve(d.Params, svc)
	if err != nil {
		return nil
	}
	return net.ParseIP(fields.String(service.FieldSourceIP))
}

// server is the part of *zeroconf.Server the advertiser uses.
type server interface {
	Shutdown()
}

type registerFunc func(r Record, ifaces []net.Interface) (server, error)

func registerProxy(r Record, ifaces []net.Interface) (server, error) {
	srv, err := zeroconf.RegisterProxy(r.Instance, r.Service, r.Domain, r.Port, r.Host, r.IPs, r.Text, ifaces)
	if err != nil {
		return nil, err
	}
	return srv, nil
}

// Advertiser owns the zeroconf servers of a set of descriptors.
type Advertiser struct {
	ifaceName string
	register  registerFunc

	mu      sync.Mutex
	servers []server
}

// New creates an Advertiser answering on ifaceName, or on every multicast
// interface when it is empty.
func New(ifaceName string) *Advertiser {
	return &Advertiser{
		ifaceName: ifaceName,
		register:  registerProxy,
	}
}

// Start registers a record for every descriptor with mdns settings. If any
// registration fails the ones already made are withdrawn.
func (a *Advertiser) Start(descriptors []*service.Descriptor) error {
	ifaces, err := a.interfaces()
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, d := range descriptors {
		rec, ok := RecordFor(d)
		if !ok {
			continue
		}
		srv, err := a.register(rec, ifaces)
		if err != nil {
			a.shutdownLocked()
			return fmt.Errorf("failed to register mDNS record %q (%s): %w", rec.Instance, rec.Service, err)
		}
		a.servers = append(a.servers, srv)
		logging.Info("mDNS record registered",
			zap.String("descriptor", d.Name),
			zap.String("instance", rec.Instance),
			zap.String("service", rec.Service),
			zap.Int("port", rec.Port),
			zap.Strings("ips", rec.IPs),
		)
	}
	return nil
}

// Stop withdraws every registered record.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shutdownLocked()
}

// Len returns the number of active registrations.
func (a *Advertiser) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.servers)
}

func (a *Advertiser) shutdownLocked() {
	for _, srv := range a.servers {
		srv.Shutdown()
	}
	a.servers = nil
}

func (a *Advertiser) interfaces() ([]net.Interface, error) {
	if a.ifaceName == "" {
		return nil, nil
	}
	ifi, err := net.InterfaceByName(a.ifaceName)
	if err != nil {
		return nil, fmt.Errorf("failed to find interface %s: %w", a.ifaceName, err)
	}
	return []net.Interface{*ifi}, nil
}
