package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPlaceholder is returned when a template names a field that
	// is not defined.
	ErrUnknownPlaceholder = errors.New("unknown placeholder")

	// ErrUnbalancedBrace is returned for a "{" without a closing "}" or a
	// lone "}" that is not escaped as "}}".
	ErrUnbalancedBrace = errors.New("unbalanced brace")

	// ErrNonASCII is returned when rendered output contains bytes outside
	// the ASCII range.
	ErrNonASCII = errors.New("rendered output is not ASCII")
)

// Format substitutes {name} placeholders in tmpl from fields. "{{" and "}}"
// produce literal braces. Substituted values are inserted verbatim and are
// not scanned for further placeholders.
func Format(tmpl string, fields *Fields) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' at offset %d", ErrUnbalancedBrace, i)
			}
			name := tmpl[i+1 : i+1+end]
			if strings.IndexByte(name, '{') >= 0 {
				return "", fmt.Errorf("%w: nested '{' at offset %d", ErrUnbalancedBrace, i)
			}
			v, ok := fields.Get(name)
			if !ok {
				return "", fmt.Errorf("%w: {%s}", ErrUnknownPlaceholder, name)
			}
			b.WriteString(stringify(v))
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: single '}' at offset %d", ErrUnbalancedBrace, i)
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}

// Render formats tmpl and encodes it for the wire: line endings become CRLF
// and the result must be ASCII.
func Render(tmpl string, fields *Fields) ([]byte, error) {
	text, err := Format(tmpl, fields)
	if err != nil {
		return nil, err
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "\r\n")

	for i := 0; i < len(text); i++ {
		if text[i] > 0x7f {
			return nil, fmt.Errorf("%w: byte 0x%02x at offset %d", ErrNonASCII, text[i], i)
		}
	}
	return []byte(text), nil
}
