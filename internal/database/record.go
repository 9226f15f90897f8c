package database

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one result row keyed by column name. It keeps the column order
// of the result set, including when encoded as JSON.
type Record struct {
	cols []string
	vals []any
}

// NewRecord builds a Record from parallel column and value slices.
func NewRecord(cols []string, vals []any) Record {
	return Record{cols: cols, vals: vals}
}

// Columns returns the column names in result order.
func (r Record) Columns() []string {
	return r.cols
}

// Get returns the value of a column.
func (r Record) Get(col string) (any, bool) {
	for i, c := range r.cols {
		if c == col {
			return r.vals[i], true
		}
	}
	return nil, false
}

// Map returns the record as a plain map.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.cols))
	for i, c := range r.cols {
		m[c] = r.vals[i]
	}
	return m
}

// MarshalJSON encodes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.vals[i])
		if err != nil {
			return nil, fmt.Errorf("database: marshal column %q: %w", c, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// scanRecords reads every row into Records.
func scanRecords(rows *sql.Rows) ([]Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("database: columns: %w", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("database: column types: %w", err)
	}

	records := []Record{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("database: scan row: %w", err)
		}
		for i := range vals {
			vals[i] = normalize(vals[i], types[i].DatabaseTypeName())
		}
		records = append(records, NewRecord(cols, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate rows: %w", err)
	}
	return records, nil
}

// normalize converts driver byte slices into strings or numbers according
// to the column's declared type. The MySQL text protocol returns every
// column as []byte.
func normalize(v any, typeName string) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(b)
	upper := strings.ToUpper(typeName)
	switch {
	case strings.Contains(upper, "INT"):
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	case strings.Contains(upper, "FLOAT"), strings.Contains(upper, "DOUBLE"),
		strings.Contains(upper, "REAL"), strings.Contains(upper, "DECIMAL"),
		strings.Contains(upper, "NUMERIC"):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
