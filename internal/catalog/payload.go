package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value is a decoded field value ready to be bound.
type Value struct {
	Field Field
	Value any
}

// Values is an ordered list of decoded values. Column order and bind order
// both come from this single slice.
type Values []Value

// Columns returns the column names in order.
func (v Values) Columns() []string {
	cols := make([]string, len(v))
	for i, val := range v {
		cols[i] = val.Field.Name
	}
	return cols
}

// Args returns the bind arguments in order.
func (v Values) Args() []any {
	args := make([]any, len(v))
	for i, val := range v {
		args[i] = val.Value
	}
	return args
}

// ValidationError reports a request body that does not match the table's
// create or update schema.
type ValidationError struct {
	Table  string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("catalog: invalid %s payload: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("catalog: invalid %s payload: field %q: %s", e.Table, e.Field, e.Reason)
}

// DecodeCreate decodes a create body. Every field is required; unknown keys
// are ignored.
func (t *Table) DecodeCreate(body []byte) (Values, error) {
	obj, err := t.decodeObject(body)
	if err != nil {
		return nil, err
	}

	values := make(Values, 0, len(t.Fields))
	for _, f := range t.Fields {
		raw, ok := obj[f.Name]
		if !ok || isNull(raw) {
			return nil, &ValidationError{Table: t.Name, Field: f.Name, Reason: "field required"}
		}
		v, err := t.decodeField(f, raw)
		if err != nil {
			return nil, err
		}
		values = append(values, Value{Field: f, Value: v})
	}
	return values, nil
}

// DecodePatch decodes an update body. Every field is optional and an
// explicit null counts as omitted, but at least one field must be given.
func (t *Table) DecodePatch(body []byte) (Values, error) {
	obj, err := t.decodeObject(body)
	if err != nil {
		return nil, err
	}

	var values Values
	for _, f := range t.Fields {
		raw, ok := obj[f.Name]
		if !ok || isNull(raw) {
			continue
		}
		v, err := t.decodeField(f, raw)
		if err != nil {
			return nil, err
		}
		values = append(values, Value{Field: f, Value: v})
	}
	if len(values) == 0 {
		return nil, &ValidationError{Table: t.Name, Reason: "no updatable fields supplied"}
	}
	return values, nil
}

func (t *Table) decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, &ValidationError{Table: t.Name, Reason: "body must be a JSON object"}
	}
	if obj == nil {
		return nil, &ValidationError{Table: t.Name, Reason: "body must be a JSON object"}
	}
	return obj, nil
}

func (t *Table) decodeField(f Field, raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	switch f.Kind {
	case KindInteger:
		// json.Number also accepts quoted numbers, which are not integers here.
		if len(raw) == 0 || raw[0] == '"' {
			return nil, &ValidationError{Table: t.Name, Field: f.Name, Reason: "must be an integer"}
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, &ValidationError{Table: t.Name, Field: f.Name, Reason: "must be an integer"}
		}
		i, err := n.Int64()
		if err != nil {
			return nil, &ValidationError{Table: t.Name, Field: f.Name, Reason: "must be an integer"}
		}
		return i, nil
	default:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &ValidationError{Table: t.Name, Field: f.Name, Reason: "must be a string"}
		}
		return s, nil
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
