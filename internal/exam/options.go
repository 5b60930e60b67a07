package exam

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OptionMap is an option-label → option-text mapping that remembers key
// order. JSON object key order is the wire contract for option presentation,
// so the map round-trips through a custom codec instead of a plain Go map.
type OptionMap struct {
	keys   []string
	values map[string]string
}

func (m *OptionMap) Set(key, value string) {
	if m.values == nil {
		m.values = map[string]string{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m OptionMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m OptionMap) Len() int { return len(m.keys) }

// Keys returns the labels in presentation order.
func (m OptionMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Reordered returns a copy whose key order follows keys. Labels absent from
// the map are skipped; associations are unchanged.
func (m OptionMap) Reordered(keys []string) OptionMap {
	var out OptionMap
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out.Set(k, v)
		}
	}
	return out
}

func (m OptionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *OptionMap) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil { // JSON null
		*m = OptionMap{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("options: expected object, got %v", tok)
	}
	var out OptionMap
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("options: bad key %v", kt)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var val string
		if err := json.Unmarshal(raw, &val); err != nil {
			// tolerate non-string cells from tabular imports
			val = string(bytes.TrimSpace(raw))
		}
		out.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}
