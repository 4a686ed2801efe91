// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package rowset holds the ordered row type shared by the store boundary,
// the normalizer and the exporters.
package rowset

import (
	"database/sql"
	"fmt"
	"strings"
)

// Field is a single named value in a Row.
type Field struct {
	Key   string
	Value any
}

// Row is an ordered list of fields. Key order is the column order of the
// query that produced it.
type Row []Field

// Keys returns the field names in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// GetFold is Get with case-insensitive key matching.
func (r Row) GetFold(key string) (any, bool) {
	for _, f := range r {
		if strings.EqualFold(f.Key, key) {
			return f.Value, true
		}
	}
	return nil, false
}

// Clone returns a copy that shares no backing array with r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Scan reads every remaining row of rows into ordered Rows. The caller
// closes rows.
func Scan(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := []Row{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			v := values[i]
			// drivers hand TEXT back as []byte
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[i] = Field{Key: col, Value: v}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
