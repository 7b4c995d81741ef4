// Package service holds the advertised-service model and renders SSDP
// messages from templates.
//
// A Descriptor carries two templates (NOTIFY and search response), a set of
// Params shared by its services, and the Services themselves. Each Service is
// a list of overrides and must define "st", the search target it answers to.
//
// Params are literal or computed. Computed params call a Producer on every
// render, which is how fields such as a fresh UUID or the DATE header change
// between messages:
//
//	date, _ := service.NewProducer("http_date")
//	params := service.Params{
//	    {Name: "ip", Value: service.Literal("192.168.1.20")},
//	    {Name: "location", Value: service.Literal("http://{ip}:80/description.xml")},
//	    {Name: "date", Value: service.Computed(date)},
//	}
//
// Resolve merges params and service entries and expands {name} placeholders
// in a single ordered pass; see its documentation for the ordering rules.
package service
