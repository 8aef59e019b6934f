package utils

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// ToString converts a scalar identifier value to its canonical string form.
// Whole floats are printed without exponent or fraction so that a JSON
// number 1000000 and an SQL BIGINT 1000000 produce the same key.
// JSON numbers are normalised the same way, so 1e6 and 1000000.0 both give
// "1000000".
// The second return value is false for nil and for non-scalar values.
func ToString(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case json.Number:
		return numberString(v), true
	case fmt.Stringer:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// numberString returns the canonical form of a JSON number literal. Literals
// that do not parse are returned unchanged.
func numberString(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
