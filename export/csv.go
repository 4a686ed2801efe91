// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielhkuo/mentoria/rowset"
)

// ToCSV renders rows as CSV. The header is the first row's keys and fixes the
// column order of every row; keys a later row lacks render as "". Every
// field is quoted with embedded quotes doubled. Empty input gives "".
func ToCSV(rows []rowset.Row) string {
	if len(rows) == 0 {
		return ""
	}

	header := rows[0].Keys()
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(header, ","))

	for _, row := range rows {
		fields := make([]string, len(header))
		for i, key := range header {
			v, _ := row.Get(key)
			fields[i] = quote(FormatValue(v))
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FormatValue renders a cell value as text. nil is empty.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
