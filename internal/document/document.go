package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object whose keys keep the order they were decoded or set in.
type Object = orderedmap.OrderedMap[string, any]

// New returns an empty Object.
func New() *Object {
	return orderedmap.New[string, any]()
}

// FromPairs builds an Object from alternating key/value arguments.
// It panics on an odd argument count or a non-string key.
func FromPairs(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("document.FromPairs: odd number of arguments")
	}
	obj := New()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("document.FromPairs: key %v is not a string", kv[i]))
		}
		obj.Set(key, kv[i+1])
	}
	return obj
}

// ErrNotObject is returned when a JSON document is valid but is not an object.
var ErrNotObject = errors.New("JSON value is not an object")

// Decode parses one JSON value. Objects become *Object (recursively), arrays
// []any, numbers json.Number, everything else its natural Go type.
// Trailing data after the value is an error.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
		}
		return nil, err
	}
	return v, nil
}

// DecodeObject parses a JSON document that must be an object.
func DecodeObject(data []byte) (*Object, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// FromValue converts any JSON-marshalable value into an Object, keeping the
// field order its JSON encoding produces.
func FromValue(v any) (*Object, error) {
	if obj, ok := v.(*Object); ok {
		return obj, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return DecodeObject(data)
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := New()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key at offset %d is not a string", dec.InputOffset())
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil { // ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q at offset %d", t, dec.InputOffset())
		}
	default:
		return t, nil
	}
}

// Get returns the value stored under key, or nil when obj is nil or the key is absent.
func Get(obj *Object, key string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	return obj.Get(key)
}

// Plain converts v into plain Go maps and slices, dropping key order.
// Numbers become float64 as encoding/json would produce them.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		m := make(map[string]any, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			m[pair.Key] = Plain(pair.Value)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Plain(item)
		}
		return out
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[k] = Plain(item)
		}
		return m
	default:
		return v
	}
}

// sortedKeys returns the keys of a plain map in sorted order, the only
// stable order a Go map has.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
