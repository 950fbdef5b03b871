// Package document is the generic structured-document form resources are
// serialized through: ordered objects, arrays and scalars.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is an insertion-ordered JSON object. Values are string, bool,
// json.Number, nil, *Object or []any. Numbers keep their literal form.
type Object struct {
	fields *orderedmap.OrderedMap[string, any]
}

// New returns an empty object.
func New() *Object {
	return &Object{fields: orderedmap.New[string, any]()}
}

// Set stores value under key, keeping the original position of an existing key.
func (o *Object) Set(key string, value any) *Object {
	o.fields.Set(key, value)
	return o
}

// Get returns the value under key.
func (o *Object) Get(key string) (any, bool) {
	return o.fields.Get(key)
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.fields.Get(key)
	return ok
}

// Delete removes key.
func (o *Object) Delete(key string) {
	o.fields.Delete(key)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return o.fields.Len()
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// MarshalJSON writes the keys in insertion order. HTML characters are kept
// as they are.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encode appends a newline after every value; drop it.
	encode := func(v any) error {
		if err := enc.Encode(v); err != nil {
			return err
		}
		buf.Truncate(buf.Len() - 1)
		return nil
	}

	buf.WriteByte('{')
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		if pair != o.fields.Oldest() {
			buf.WriteByte(',')
		}
		if err := encode(pair.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encode(pair.Value); err != nil {
			return nil, fmt.Errorf("%s: %w", pair.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal serializes o as indented JSON with a trailing newline.
func Marshal(o *Object) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return nil, fmt.Errorf("document: marshal: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse reads a JSON object. Comments and trailing commas are tolerated so
// hand-edited artifacts still load.
func Parse(data []byte) (*Object, error) {
	raw := jsonc.ToJSON(data)
	value, err := parseValue(raw)
	if err != nil {
		return nil, fmt.Errorf("document: parse: %w", err)
	}
	obj, ok := value.(*Object)
	if !ok {
		return nil, fmt.Errorf("document: parse: top-level value is %s, want object", kindOf(value))
	}
	return obj, nil
}

func parseValue(raw []byte) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	switch raw[0] {
	case '{':
		fields := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(raw, fields); err != nil {
			return nil, err
		}
		obj := New()
		for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
			v, err := parseValue(pair.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pair.Key, err)
			}
			obj.Set(pair.Key, v)
		}
		return obj, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			v, err := parseValue(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// kindOf names the JSON kind of a document value for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number, int, int64:
		return "number"
	case *Object:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
