package service

import "fmt"

// Fields is an insertion-ordered mapping from placeholder name to value.
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields returns an empty mapping.
func NewFields() *Fields {
	return &Fields{values: make(map[string]any)}
}

// Set stores v under key. An existing key keeps its position.
func (f *Fields) Set(key string, v any) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = v
}

// Get returns the raw value stored under key.
func (f *Fields) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// String returns the value under key formatted as text, or "" when absent.
func (f *Fields) String(key string) string {
	v, ok := f.values[key]
	if !ok {
		return ""
	}
	return stringify(v)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
