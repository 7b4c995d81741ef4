package config

import (
	"time"

	"github.com/muurk/staticssdp/internal/privilege"
	"github.com/muurk/staticssdp/internal/service"
	"github.com/muurk/staticssdp/internal/ssdp"
)

// CurrentVersion is the only supported file version.
const CurrentVersion = 1

// File represents the entire configuration file.
type File struct {
	Version     int          `yaml:"version"`
	Network     Network      `yaml:"network"`
	Descriptors []Descriptor `yaml:"descriptors"`
}

// Network holds socket and timing settings for the responder.
type Network struct {
	Group          string        `yaml:"group"`
	Port           int           `yaml:"port"`
	Interface      string        `yaml:"interface,omitempty"` // Empty uses the system default
	BufferSize     int           `yaml:"buffer_size"`
	MulticastTTL   int           `yaml:"multicast_ttl"`
	AnnouncePeriod time.Duration `yaml:"announce_period"`
	SettleDelay    time.Duration `yaml:"settle_delay"`
	ReceiveTimeout time.Duration `yaml:"receive_timeout"`
	GoodbyeNTS     string        `yaml:"goodbye_nts"`
	Spoof          Spoof         `yaml:"spoof"`
}

// Spoof configures the link-layer transport that sends packets with the
// service's own address as source.
type Spoof struct {
	Enabled bool   `yaml:"enabled"`
	User    string `yaml:"user"`  // Account to switch to once the socket is open
	Group   string `yaml:"group"` // Group to switch to once the socket is open
	TTL     int    `yaml:"ttl"`   // IP TTL of spoofed packets
}

// Descriptor is one service descriptor as written in the file.
type Descriptor struct {
	Name      string     `yaml:"name"`
	Templates Templates  `yaml:"templates"`
	Params    ParamList  `yaml:"params"`
	Services  []Entries  `yaml:"services"`
	MDNS      *MDNSEntry `yaml:"mdns,omitempty"`
}

// Templates holds the notify and response templates.
type Templates struct {
	Notify   string `yaml:"notify"`
	Response string `yaml:"response"`
}

// MDNSEntry is the optional DNS-SD companion record of a descriptor.
type MDNSEntry struct {
	Instance string   `yaml:"instance"`
	Service  string   `yaml:"service"`
	Domain   string   `yaml:"domain,omitempty"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	IPs      []string `yaml:"ips"`
	Text     []string `yaml:"text,omitempty"`
}

// DefaultNetwork returns the network settings used for missing keys.
func DefaultNetwork() Network {
	return Network{
		Group:          ssdp.MulticastAddrIPv4,
		Port:           ssdp.Port,
		BufferSize:     ssdp.DefaultBufferSize,
		MulticastTTL:   ssdp.DefaultMulticastTTL,
		AnnouncePeriod: ssdp.DefaultAnnouncePeriod,
		SettleDelay:    ssdp.DefaultSettleDelay,
		ReceiveTimeout: time.Second,
		GoodbyeNTS:     ssdp.NTSGoodbye,
		Spoof: Spoof{
			User:  privilege.DefaultUser,
			Group: privilege.DefaultGroup,
			TTL:   15,
		},
	}
}

// NewFile creates a File with default values and no descriptors.
func NewFile() *File {
	return &File{
		Version: CurrentVersion,
		Network: DefaultNetwork(),
	}
}

// ServiceDescriptor converts the entry to the service model.
func (d Descriptor) ServiceDescriptor() *service.Descriptor {
	sd := &service.Descriptor{
		Name:   d.Name,
		Params: service.Params(d.Params),
		Templates: service.Templates{
			Notify:   d.Templates.Notify,
			Response: d.Templates.Response,
		},
	}
	for _, e := range d.Services {
		sd.Services = append(sd.Services, service.Service(e))
	}
	if d.MDNS != nil {
		sd.MDNS = &service.MDNS{
			Instance: d.MDNS.Instance,
			Service:  d.MDNS.Service,
			Domain:   d.MDNS.Domain,
			Host:     d.MDNS.Host,
			Port:     d.MDNS.Port,
			IPs:      append([]string(nil), d.MDNS.IPs...),
			Text:     append([]string(nil), d.MDNS.Text...),
		}
	}
	return sd
}

// ServiceDescriptors converts every descriptor of the file.
func (f *File) ServiceDescriptors() []*service.Descriptor {
	out := make([]*service.Descriptor, 0, len(f.Descriptors))
	for _, d := range f.Descriptors {
		out = append(out, d.ServiceDescriptor())
	}
	return out
}
