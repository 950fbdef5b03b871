package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAML reads a YAML mapping into an object, keeping key order.
func FromYAML(data []byte) (*Object, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("document: parse yaml: %w", err)
	}
	value, err := fromNode(&root)
	if err != nil {
		return nil, fmt.Errorf("document: parse yaml: %w", err)
	}
	obj, ok := value.(*Object)
	if !ok {
		return nil, fmt.Errorf("document: parse yaml: top-level value is %s, want object", kindOf(value))
	}
	return obj, nil
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		obj := New()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", key.Line)
			}
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key.Value, err)
			}
			obj.Set(key.Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for i, item := range n.Content {
			v, err := fromNode(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!int", "!!float":
			if json.Valid([]byte(n.Value)) {
				return json.Number(n.Value), nil
			}
			var v any
			if err := n.Decode(&v); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return v, nil
		case "!!bool":
			var v any
			if err := n.Decode(&v); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return v, nil
		default:
			return n.Value, nil
		}
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

// ToYAML writes an object as block-style YAML, keeping key order.
func ToYAML(o *Object) ([]byte, error) {
	node, err := toNode(o)
	if err != nil {
		return nil, fmt.Errorf("document: marshal yaml: %w", err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("document: marshal yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("document: marshal yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range val.Keys() {
			item, _ := val.Get(key)
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case json.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: numberTag(val.String()), Value: val.String()}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(val); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// numberTag picks the YAML tag under which the literal resolves back to the
// same number.
func numberTag(literal string) string {
	if _, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return "!!int"
	}
	if _, err := strconv.ParseUint(literal, 10, 64); err == nil {
		return "!!int"
	}
	return "!!float"
}
