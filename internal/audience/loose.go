package audience

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Loose JSON decoding that keeps object key order. Ranking of audience
// locations is positional, so a keyed mapping like {"Australia":40,"USA":25}
// must produce entries in document order — map[string]interface{} would
// scramble it.

// OrderedMap is a JSON object with its keys in document order
type OrderedMap struct {
	keys   []string
	values map[string]interface{}
}

// Keys returns the keys in document order
func (m *OrderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Get returns the value for key and whether it was present
func (m *OrderedMap) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set appends or replaces a key, preserving first-seen order
func (m *OrderedMap) Set(key string, value interface{}) {
	if m.values == nil {
		m.values = make(map[string]interface{})
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Len returns the number of keys
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// DecodeLoose parses arbitrary JSON into interface values, using
// *OrderedMap for objects and []interface{} for arrays. A decode failure
// returns nil — callers treat malformed input as an empty payload.
func DecodeLoose(data []byte) interface{} {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil
	}
	return v
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := &OrderedMap{values: make(map[string]interface{})}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			// consume closing '}'
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			var list []interface{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		// string, bool, nil
		return t, nil
	}
}

// lookup reads a field from either an *OrderedMap or a plain map
func lookup(container interface{}, key string) (interface{}, bool) {
	switch m := container.(type) {
	case *OrderedMap:
		return m.Get(key)
	case map[string]interface{}:
		v, ok := m[key]
		return v, ok
	}
	return nil, false
}

// firstPresent returns the first key that exists in container
func firstPresent(container interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := lookup(container, k); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
