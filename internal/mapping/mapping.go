package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Column pairs a source column with the token chosen for it.
type Column struct {
	Source string
	Token  string
}

// Mapping is the ordered column→token set applied to one file. Order is
// significant: it decides the order of emails and phones and which column wins
// when two columns target the same field.
type Mapping []Column

// UnmarshalJSON decodes a JSON object while keeping its key order. A repeated
// key keeps its first position and takes the last value. Null values are
// treated as an empty (ignored) token.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode mapping: %w", err)
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode mapping: expected object, got %v", tok)
	}

	out := Mapping{}
	positions := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode mapping key: %w", err)
		}
		key, _ := keyTok.(string)

		var token *string
		if err := dec.Decode(&token); err != nil {
			return fmt.Errorf("decode mapping value for %q: %w", key, err)
		}
		value := ""
		if token != nil {
			value = *token
		}

		if idx, seen := positions[key]; seen {
			out[idx].Token = value
			continue
		}
		positions[key] = len(out)
		out = append(out, Column{Source: key, Token: value})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode mapping: %w", err)
	}

	*m = out
	return nil
}

// MarshalJSON encodes the mapping as an object in column order.
func (m Mapping) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, col := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col.Source)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(col.Token)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CompiledColumn is a source column with its classified directive.
type CompiledColumn struct {
	Source    string
	Directive Directive
}

// Compiled is a mapping with every token classified and ignored columns removed.
type Compiled []CompiledColumn

// Compile classifies every column once so rows of the same file can reuse it.
func (m Mapping) Compile() Compiled {
	out := make(Compiled, 0, len(m))
	for _, col := range m {
		d := Classify(col.Token)
		if d.Kind == KindIgnore {
			continue
		}
		out = append(out, CompiledColumn{Source: col.Source, Directive: d})
	}
	return out
}
