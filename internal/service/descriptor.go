package service

import (
	"errors"
	"fmt"
)

// Well-known field names.
const (
	FieldSearchTarget = "st"
	FieldNTS          = "nts"
	// FieldSourceIP is the address the service is advertised from. The
	// spoofing transport uses it as the packet source.
	FieldSourceIP = "ip"
)

// ErrMissingSearchTarget is returned for a service without an st value.
var ErrMissingSearchTarget = errors.New("service has no search target (st)")

// Entry is one key/value override of a Service.
type Entry struct {
	Key   string
	Value string
}

// Service is an ordered set of overrides layered on a descriptor's params.
type Service []Entry

// Get returns the value for key.
func (s Service) Get(key string) (string, bool) {
	for _, e := range s {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// SearchTarget returns the unresolved st value.
func (s Service) SearchTarget() string {
	st, _ := s.Get(FieldSearchTarget)
	return st
}

// Templates holds the two message templates of a descriptor.
type Templates struct {
	// Notify renders NOTIFY announcements; it may use {nts}.
	Notify string
	// Response renders the unicast answer to an M-SEARCH.
	Response string
}

// MDNS describes an optional DNS-SD record advertised next to the SSDP
// service, for devices that are discoverable both ways.
type MDNS struct {
	Instance string
	Service  string
	Domain   string
	Host     string
	Port     int
	IPs      []string
	Text     []string
}

// Descriptor groups services that share templates and params.
type Descriptor struct {
	Name      string
	Params    Params
	Services  []Service
	Templates Templates
	MDNS      *MDNS
}

// Resolve builds the field mapping for one service.
//
// Every param is evaluated in order (producers are called), then the
// service's entries are overlaid; a service key replaces a param of the same
// name in place. Finally a single pass formats each string value, in
// insertion order, against the mapping as it stands at that moment, and
// writes the result back.
//
// The pass is not repeated. A value that refers to a field formatted later
// in the order receives that field's raw text, placeholders included. Params
// can therefore reference params declared earlier or literal values, but a
// service entry referring to another service entry appended after it is not
// guaranteed to be expanded. Configurations written against this behaviour
// depend on it, so it is kept as is.
func Resolve(params Params, svc Service) (*Fields, error) {
	fields := NewFields()
	for _, p := range params {
		fields.Set(p.Name, p.Value.Eval())
	}
	for _, e := range svc {
		fields.Set(e.Key, e.Value)
	}

	for _, key := range fields.keys {
		s, ok := fields.values[key].(string)
		if !ok {
			continue
		}
		formatted, err := Format(s, fields)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		fields.values[key] = formatted
	}

	return fields, nil
}

// Response resolves svc and renders the search response template.
func (d *Descriptor) Response(svc Service) ([]byte, *Fields, error) {
	fields, err := Resolve(d.Params, svc)
	if err != nil {
		return nil, nil, err
	}
	payload, err := Render(d.Templates.Response, fields)
	if err != nil {
		return nil, nil, fmt.Errorf("response template: %w", err)
	}
	return payload, fields, nil
}

// Notify resolves svc, adds the nts field and renders the notify template.
func (d *Descriptor) Notify(svc Service, nts string) ([]byte, *Fields, error) {
	fields, err := Resolve(d.Params, svc)
	if err != nil {
		return nil, nil, err
	}
	fields.Set(FieldNTS, nts)
	payload, err := Render(d.Templates.Notify, fields)
	if err != nil {
		return nil, nil, fmt.Errorf("notify template: %w", err)
	}
	return payload, fields, nil
}

// Validate renders both templates for every service once.
func (d *Descriptor) Validate() error {
	var errs []error
	if len(d.Services) == 0 {
		errs = append(errs, fmt.Errorf("descriptor %q has no services", d.Name))
	}
	for i, svc := range d.Services {
		if svc.SearchTarget() == "" {
			errs = append(errs, fmt.Errorf("descriptor %q service %d: %w", d.Name, i, ErrMissingSearchTarget))
			continue
		}
		if _, _, err := d.Response(svc); err != nil {
			errs = append(errs, fmt.Errorf("descriptor %q service %d: %w", d.Name, i, err))
		}
		if _, _, err := d.Notify(svc, "ssdp:alive"); err != nil {
			errs = append(errs, fmt.Errorf("descriptor %q service %d: %w", d.Name, i, err))
		}
	}
	return errors.Join(errs...)
}
