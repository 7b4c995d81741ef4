package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muurk/staticssdp/internal/service"
	"gopkg.in/yaml.v3"
)

// computedKey marks a param mapping evaluated by a named producer.
const computedKey = "computed"

// ErrUnknownProducer is returned for a computed param naming no producer.
var ErrUnknownProducer = errors.New("unknown computed producer")

// ParamList is an ordered params mapping.
type ParamList service.Params

// UnmarshalYAML decodes a mapping of name to scalar or {computed: name},
// keeping the order of the document.
func (p *ParamList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: params must be a mapping", node.Line)
	}

	params := service.Params{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		value, err := decodeParamValue(valueNode)
		if err != nil {
			return fmt.Errorf("param %q: %w", keyNode.Value, err)
		}
		params.Set(keyNode.Value, value)
	}
	*p = ParamList(params)
	return nil
}

func decodeParamValue(node *yaml.Node) (service.Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		// Kept as written: "1.0" must not turn into 1.
		return service.Literal(node.Value), nil

	case yaml.MappingNode:
		if len(node.Content) != 2 || node.Content[0].Value != computedKey {
			return service.Value{}, fmt.Errorf("line %d: a mapping value must be {%s: <name>}", node.Line, computedKey)
		}
		name := node.Content[1].Value
		producer, ok := service.NewProducer(name)
		if !ok {
			return service.Value{}, fmt.Errorf("line %d: %w %q (known: %s)",
				node.Line, ErrUnknownProducer, name, strings.Join(service.ProducerNames(), ", "))
		}
		return service.Computed(producer), nil

	default:
		return service.Value{}, fmt.Errorf("line %d: value must be a scalar or {%s: <name>}", node.Line, computedKey)
	}
}

// Entries is one service: an ordered mapping of string keys to string values.
type Entries service.Service

// UnmarshalYAML decodes the mapping in document order. Scalars are kept as
// written.
func (e *Entries) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: a service must be a mapping", node.Line)
	}

	entries := make(Entries, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if valueNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: service key %q must have a scalar value", valueNode.Line, keyNode.Value)
		}
		entries = append(entries, service.Entry{Key: keyNode.Value, Value: valueNode.Value})
	}
	*e = entries
	return nil
}
