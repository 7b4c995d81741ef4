package ssdp

import (
	"bytes"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrMalformedRequestLine is returned when a recognized verb is followed by
	// a request line that does not split into exactly three tokens.
	ErrMalformedRequestLine = errors.New("malformed request line")

	// ErrMalformedHeader is returned for a header line without a colon.
	ErrMalformedHeader = errors.New("malformed header line")
)

// Parser turns a datagram into a Request. A parser returns (nil, nil) when
// the datagram is not one it understands, so the next parser can try.
type Parser interface {
	Parse(data []byte, remote *net.UDPAddr) (*Request, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(data []byte, remote *net.UDPAddr) (*Request, error)

func (f ParserFunc) Parse(data []byte, remote *net.UDPAddr) (*Request, error) {
	return f(data, remote)
}

// DefaultParsers is the ordered list consulted by ParseRequest.
var DefaultParsers = []Parser{
	NewRequestLineParser(MethodSearch, MethodNotify),
}

// ParseRequest runs data through DefaultParsers; the first non-nil result
// wins. It returns (nil, nil) when no parser recognizes the datagram.
func ParseRequest(data []byte, remote *net.UDPAddr) (*Request, error) {
	return ParseWith(DefaultParsers, data, remote)
}

// ParseWith is ParseRequest over an explicit parser list.
func ParseWith(parsers []Parser, data []byte, remote *net.UDPAddr) (*Request, error) {
	for _, p := range parsers {
		req, err := p.Parse(data, remote)
		if err != nil {
			return nil, err
		}
		if req != nil {
			return req, nil
		}
	}
	return nil, nil
}

// RequestLineParser parses HTTP-over-UDP requests whose datagram starts with
// one of its methods.
type RequestLineParser struct {
	methods [][]byte
}

// NewRequestLineParser returns a parser accepting the given verbs.
func NewRequestLineParser(methods ...string) *RequestLineParser {
	p := &RequestLineParser{}
	for _, m := range methods {
		p.methods = append(p.methods, []byte(m))
	}
	return p
}

func (p *RequestLineParser) recognizes(data []byte) bool {
	for _, m := range p.methods {
		if bytes.HasPrefix(data, m) {
			return true
		}
	}
	return false
}

// Parse implements Parser. Carriage returns are dropped so bare "\n"
// framing is accepted as well as "\r\n".
func (p *RequestLineParser) Parse(data []byte, remote *net.UDPAddr) (*Request, error) {
	if !p.recognizes(data) {
		return nil, nil
	}

	text := bytes.ReplaceAll(data, []byte("\r"), nil)
	line, headerBlock, _ := bytes.Cut(text, []byte("\n"))

	tokens := bytes.Split(line, []byte(" "))
	if len(tokens) != 3 {
		return nil, fmt.Errorf("%w: %q has %d tokens", ErrMalformedRequestLine, line, len(tokens))
	}

	req := &Request{
		Method:  string(tokens[0]),
		Path:    string(tokens[1]),
		Version: string(tokens[2]),
		Remote:  remote,
	}

	for _, raw := range bytes.Split(headerBlock, []byte("\n")) {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		name, value, ok := bytes.Cut(raw, []byte(":"))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformedHeader, raw)
		}
		req.Header.Add(string(bytes.TrimSpace(name)), string(bytes.TrimSpace(value)))
	}

	return req, nil
}
