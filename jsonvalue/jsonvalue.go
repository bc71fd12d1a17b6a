// Package jsonvalue provides the single JSON value representation used
// throughout the gateway: parsed executor responses, merged objects, and
// the final client response all flow through this type so that object key
// order is preserved end to end (encoding/json's map[string]interface{}
// does not guarantee this - it sorts keys alphabetically on marshal).
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is any JSON value: nil, bool, a number, string, *Object, or []Value.
// Unmarshal decodes numbers as json.Number; values built in Go may hold any
// numeric type encoding/json can marshal.
type Value interface{}

// Object is a JSON object that remembers the order in which keys were
// first inserted. The zero value is an empty object ready to use.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set inserts or overwrites a key, preserving the key's original position
// if it already existed, and appending it otherwise.
func (o *Object) Set(key string, value Value) {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.values == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Delete removes a key, if present.
func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len reports the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Clone returns a shallow copy: nested Objects/arrays are not deep-copied.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	clone := &Object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]Value, len(o.values)),
	}
	for k, v := range o.values {
		clone.values[k] = v
	}
	return clone
}

// MarshalJSON renders the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object, preserving the source key order.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return fmt.Errorf("jsonvalue: expected object, got %v", tok)
	}

	*o = Object{values: make(map[string]Value)}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("jsonvalue: expected string key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		val, err := decodeValue(raw)
		if err != nil {
			return err
		}
		o.Set(key, val)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Unmarshal parses raw JSON bytes into a Value tree whose objects are
// *Object (order-preserving) and whose arrays are []Value.
func Unmarshal(data []byte) (Value, error) {
	return decodeValue(data)
}

func decodeValue(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}
	switch trimmed[0] {
	case '{':
		obj := &Object{}
		if err := obj.UnmarshalJSON(trimmed); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		var rawItems []json.RawMessage
		if err := json.Unmarshal(trimmed, &rawItems); err != nil {
			return nil, err
		}
		items := make([]Value, 0, len(rawItems))
		for _, r := range rawItems {
			v, err := decodeValue(r)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Marshal renders a Value tree to JSON bytes.
func Marshal(v Value) ([]byte, error) {
	return json.Marshal(v)
}

// AsObject type-asserts v as *Object, returning (nil, false) otherwise
// (including for a nil Value).
func AsObject(v Value) (*Object, bool) {
	o, ok := v.(*Object)
	return o, ok
}

// AsArray type-asserts v as []Value.
func AsArray(v Value) ([]Value, bool) {
	a, ok := v.([]Value)
	return a, ok
}

// IsNull reports whether v represents JSON null.
func IsNull(v Value) bool {
	return v == nil
}
