// Package tracking holds the order tracking domain: the tabular rows read from
// the data source, the canonical order and customer records built from them,
// date normalization and the status display policy.
package tracking

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Row maps a literal column name to its raw cell value.
// Cell values may be string, float64, int64, bool, time.Time, []byte or nil
// depending on the adapter that produced them.
type Row map[string]any

// Table is one named dataset read from a data source
type Table struct {
	Name    string
	Columns []string // header order as found in the source
	Rows    []Row
}

// HasColumn checks if the table header contains the literal column name
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// UniqueColumns returns names with every repeat renamed to "<name>.N".
// N counts up past any name already taken or present in the header, so a
// literal column such as "Estado.1" keeps its own name.
func UniqueColumns(names []string) []string {
	literal := make(map[string]bool, len(names))
	for _, name := range names {
		literal[name] = true
	}

	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	next := make(map[string]int)
	for i, name := range names {
		if !used[name] {
			out[i] = name
			used[name] = true
			continue
		}
		n := next[name] + 1
		candidate := name + "." + strconv.Itoa(n)
		for used[candidate] || literal[candidate] {
			n++
			candidate = name + "." + strconv.Itoa(n)
		}
		next[name] = n
		out[i] = candidate
		used[candidate] = true
	}
	return out
}

// CellText converts a raw cell value to its textual form.
// Integral floats are rendered without a decimal part so that numeric
// identifiers read from spreadsheets compare equal to typed input.
func CellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		if math.IsNaN(val) {
			return "nan"
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		if math.IsNaN(float64(val)) {
			return "nan"
		}
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02 15:04:05")
	case *time.Time:
		if val == nil || val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
