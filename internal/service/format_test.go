package service

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

func mustProducer(name string) Producer {
	p, ok := NewProducer(name)
	if !ok {
		panic("unknown producer " + name)
	}
	return p
}

func TestFormat(t *testing.T) {
	fields := NewFields()
	fields.Set("name", "bridge")
	fields.Set("port", 80)
	fields.Set("empty", "")

	tests := []struct {
		name    string
		tmpl    string
		want    string
		wantErr error
	}{
		{name: "plain text", tmpl: "no placeholders", want: "no placeholders"},
		{name: "single placeholder", tmpl: "host {name}", want: "host bridge"},
		{name: "non-string value", tmpl: "{name}:{port}", want: "bridge:80"},
		{name: "empty value", tmpl: "[{empty}]", want: "[]"},
		{name: "escaped braces", tmpl: "{{literal}} {name}", want: "{literal} bridge"},
		{name: "escaped closing brace", tmpl: "a}}b", want: "a}b"},
		{name: "unknown placeholder", tmpl: "{missing}", wantErr: ErrUnknownPlaceholder},
		{name: "unclosed brace", tmpl: "abc {name", wantErr: ErrUnbalancedBrace},
		{name: "lone closing brace", tmpl: "abc } def", wantErr: ErrUnbalancedBrace},
		{name: "nested brace", tmpl: "{na{me}", wantErr: ErrUnbalancedBrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.tmpl, fields)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Format() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDoesNotRescanValues(t *testing.T) {
	fields := NewFields()
	fields.Set("a", "{b}")
	fields.Set("b", "B")

	got, err := Format("{a}", fields)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got != "{b}" {
		t.Errorf("Format() = %q, want %q", got, "{b}")
	}
}

func TestRenderLineEndings(t *testing.T) {
	fields := NewFields()
	fields.Set("st", "upnp:rootdevice")

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{name: "LF expanded", tmpl: "A\nST: {st}\n\n", want: "A\r\nST: upnp:rootdevice\r\n\r\n"},
		{name: "CRLF preserved", tmpl: "A\r\nB\r\n", want: "A\r\nB\r\n"},
		{name: "mixed", tmpl: "A\r\nB\nC", want: "A\r\nB\r\nC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, fields)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderRejectsNonASCII(t *testing.T) {
	fields := NewFields()
	fields.Set("name", "Küche")

	if _, err := Render("SERVER: {name}\n", fields); !errors.Is(err, ErrNonASCII) {
		t.Errorf("Render() error = %v, want ErrNonASCII", err)
	}
}

func TestProducers(t *testing.T) {
	t.Run("uuid", func(t *testing.T) {
		p := mustProducer("uuid")
		a, b := p().(string), p().(string)
		if _, err := uuid.Parse(a); err != nil {
			t.Errorf("uuid producer returned %q: %v", a, err)
		}
		if a == b {
			t.Error("uuid producer returned the same value twice")
		}
	})

	t.Run("counter is strictly increasing", func(t *testing.T) {
		p := mustProducer("counter")
		prev := p().(uint64)
		for i := 0; i < 10; i++ {
			next := p().(uint64)
			if next <= prev {
				t.Fatalf("counter went from %d to %d", prev, next)
			}
			prev = next
		}
	})

	t.Run("counters are independent", func(t *testing.T) {
		a := mustProducer("counter")
		b := mustProducer("counter")
		a()
		a()
		if got := b().(uint64); got != 1 {
			t.Errorf("second counter started at %d, want 1", got)
		}
	})

	t.Run("http_date", func(t *testing.T) {
		s := mustProducer("http_date")().(string)
		if _, err := time.Parse(http.TimeFormat, s); err != nil {
			t.Errorf("http_date %q does not parse: %v", s, err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, ok := NewProducer("nope"); ok {
			t.Error("NewProducer(nope) ok = true")
		}
	})

	t.Run("names", func(t *testing.T) {
		names := ProducerNames()
		if len(names) != 4 || names[0] != "counter" {
			t.Errorf("ProducerNames() = %v", names)
		}
	})
}
