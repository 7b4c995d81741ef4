package service

// Producer computes a param value at render time.
type Producer func() any

// Value is either a literal or a producer evaluated on every render.
type Value struct {
	literal  any
	producer Producer
}

// Literal wraps a fixed value.
func Literal(v any) Value {
	return Value{literal: v}
}

// Computed wraps a producer. The producer is called once per render and its
// result is never cached.
func Computed(p Producer) Value {
	return Value{producer: p}
}

// Eval returns the literal, or calls the producer.
func (v Value) Eval() any {
	if v.producer != nil {
		return v.producer()
	}
	return v.literal
}

// Param is a named descriptor parameter.
type Param struct {
	Name  string
	Value Value
}

// Params keeps descriptor parameters in declaration order.
type Params []Param

// Set replaces the value of an existing param in place or appends a new one.
func (p *Params) Set(name string, v Value) {
	for i := range *p {
		if (*p)[i].Name == name {
			(*p)[i].Value = v
			return
		}
	}
	*p = append(*p, Param{Name: name, Value: v})
}
